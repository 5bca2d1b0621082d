package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultdeck/vaultdeck/internal/audit"
	"github.com/vaultdeck/vaultdeck/internal/observability"
)

type AuditRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAuditRepo(pool *pgxpool.Pool, prom *observability.Prom) *AuditRepo {
	return &AuditRepo{pool: pool, prom: prom}
}

func (r *AuditRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveDB(op, fn)
}

func (r *AuditRepo) Insert(ctx context.Context, e audit.Event) error {
	return r.observe("audit.insert", func() error {
		// ON CONFLICT keeps re-delivery idempotent: the worker may see the
		// same payload twice if it dies between insert and queue ack
		_, err := r.pool.Exec(
			ctx,
			`INSERT INTO security_events (id, user_id, email, type, status, detail, ip, occurred_at)
			 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.UserID, e.Email, string(e.Type), string(e.Status), e.Detail, e.IP, e.OccurredAt,
		)
		return err
	})
}

func (r *AuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]audit.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var out []audit.Event

	err := r.observe("audit.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, COALESCE(user_id::text, ''), email, type, status, detail, ip, occurred_at
			 FROM security_events
			 WHERE user_id = $1
			 ORDER BY occurred_at DESC, id DESC
			 LIMIT $2`,
			userID, limit,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]audit.Event, 0, limit)

		for rows.Next() {
			var e audit.Event
			var typ, status string

			err = rows.Scan(&e.ID, &e.UserID, &e.Email, &typ, &status, &e.Detail, &e.IP, &e.OccurredAt)

			if err != nil {
				return err
			}

			e.Type = audit.EventType(typ)
			e.Status = audit.Status(status)
			out = append(out, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListRecent is the admin view: everything, including failed attempts that
// never resolved to a user id.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var out []audit.Event

	err := r.observe("audit.list_recent", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, COALESCE(user_id::text, ''), email, type, status, detail, ip, occurred_at
			 FROM security_events
			 ORDER BY occurred_at DESC, id DESC
			 LIMIT $1`,
			limit,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]audit.Event, 0, limit)

		for rows.Next() {
			var e audit.Event
			var typ, status string

			err = rows.Scan(&e.ID, &e.UserID, &e.Email, &typ, &status, &e.Detail, &e.IP, &e.OccurredAt)

			if err != nil {
				return err
			}

			e.Type = audit.EventType(typ)
			e.Status = audit.Status(status)
			out = append(out, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
