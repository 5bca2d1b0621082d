package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultdeck/vaultdeck/internal/domain/contact"
)

// ContactsRepo is deliberately unscoped: contacts are shared records and a
// missing id is a plain 404 for everyone.
type ContactsRepo struct {
	pool *pgxpool.Pool
}

func NewContactsRepo(pool *pgxpool.Pool) *ContactsRepo {
	return &ContactsRepo{pool: pool}
}

func (r *ContactsRepo) List(ctx context.Context) ([]contact.Contact, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, email, phone, notes, created_at, updated_at
		 FROM contacts
		 ORDER BY name ASC, id ASC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]contact.Contact, 0, 32)

	for rows.Next() {
		var c contact.Contact

		err = rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ContactsRepo) GetByID(ctx context.Context, id string) (contact.Contact, error) {
	var c contact.Contact

	err := r.pool.QueryRow(
		ctx,
		`SELECT id, name, email, phone, notes, created_at, updated_at
		 FROM contacts
		 WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error) {
	now := time.Now().UTC()

	c := contact.Contact{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO contacts (id, name, email, phone, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Email, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) Update(ctx context.Context, id string, req contact.UpdateContactRequest) (contact.Contact, error) {
	var c contact.Contact

	err := r.pool.QueryRow(
		ctx,
		`UPDATE contacts
		    SET name = $2,
		        email = $3,
		        phone = $4,
		        notes = $5,
		        updated_at = NOW()
		  WHERE id = $1
		  RETURNING id, name, email, phone, notes, created_at, updated_at`,
		id, req.Name, req.Email, req.Phone, req.Notes,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return contact.ErrNotFound
	}

	return nil
}
