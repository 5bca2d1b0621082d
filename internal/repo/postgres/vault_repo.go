package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultdeck/vaultdeck/internal/domain/vault"
	"github.com/vaultdeck/vaultdeck/internal/observability"
)

// VaultRepo stores password entries. Every query is scoped by owner_id; a row
// that exists under another owner scans as no rows at all, which is exactly
// the contract vault.ErrNotFound promises.
type VaultRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewVaultRepo(pool *pgxpool.Pool, prom *observability.Prom) *VaultRepo {
	return &VaultRepo{pool: pool, prom: prom}
}

func (r *VaultRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveDB(op, fn)
}

func (r *VaultRepo) ListByOwner(ctx context.Context, ownerID string) ([]vault.Entry, error) {
	var out []vault.Entry

	err := r.observe("vault.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, user_id, title, username, password, url, notes, created_at, updated_at
			 FROM passwords
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC`,
			ownerID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]vault.Entry, 0, 16)

		for rows.Next() {
			var e vault.Entry

			err = rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Username, &e.Password, &e.URL, &e.Notes, &e.CreatedAt, &e.UpdatedAt)

			if err != nil {
				return err
			}

			out = append(out, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *VaultRepo) GetByID(ctx context.Context, ownerID, id string) (vault.Entry, error) {
	var e vault.Entry

	err := r.observe("vault.get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, user_id, title, username, password, url, notes, created_at, updated_at
			 FROM passwords
			 WHERE id = $1 AND user_id = $2`,
			id, ownerID,
		).Scan(&e.ID, &e.OwnerID, &e.Title, &e.Username, &e.Password, &e.URL, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vault.Entry{}, vault.ErrNotFound
		}
		return vault.Entry{}, err
	}

	return e, nil
}

func (r *VaultRepo) Create(ctx context.Context, ownerID string, req vault.CreateEntryRequest) (vault.Entry, error) {
	now := time.Now().UTC()

	e := vault.Entry{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Username:  req.Username,
		Password:  req.Password,
		URL:       req.URL,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.observe("vault.create", func() error {
		_, err := r.pool.Exec(
			ctx,
			`INSERT INTO passwords (id, user_id, title, username, password, url, notes, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, e.OwnerID, e.Title, e.Username, e.Password, e.URL, e.Notes, e.CreatedAt, e.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return vault.Entry{}, err
	}

	return e, nil
}

func (r *VaultRepo) Update(ctx context.Context, ownerID, id string, req vault.UpdateEntryRequest) (vault.Entry, error) {
	var e vault.Entry

	err := r.observe("vault.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE passwords
			    SET title = $3,
			        username = $4,
			        password = $5,
			        url = $6,
			        notes = $7,
			        updated_at = NOW()
			  WHERE id = $1 AND user_id = $2
			  RETURNING id, user_id, title, username, password, url, notes, created_at, updated_at`,
			id, ownerID, req.Title, req.Username, req.Password, req.URL, req.Notes,
		).Scan(&e.ID, &e.OwnerID, &e.Title, &e.Username, &e.Password, &e.URL, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vault.Entry{}, vault.ErrNotFound
		}
		return vault.Entry{}, err
	}

	return e, nil
}

func (r *VaultRepo) Delete(ctx context.Context, ownerID, id string) error {
	var tag int64

	err := r.observe("vault.delete", func() error {
		res, err := r.pool.Exec(
			ctx,
			`DELETE FROM passwords WHERE id = $1 AND user_id = $2`,
			id, ownerID,
		)

		if err != nil {
			return err
		}

		tag = res.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if tag == 0 {
		return vault.ErrNotFound
	}

	return nil
}
