package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultdeck/vaultdeck/internal/domain/task"
)

type TasksRepo struct {
	pool *pgxpool.Pool
}

func NewTasksRepo(pool *pgxpool.Pool) *TasksRepo {
	return &TasksRepo{pool: pool}
}

func (r *TasksRepo) List(ctx context.Context) ([]task.Task, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, title, description, completed, due_date, priority, created_at, updated_at
		 FROM tasks
		 ORDER BY created_at DESC, id DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]task.Task, 0, 32)

	for rows.Next() {
		var t task.Task

		err = rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.Priority, &t.CreatedAt, &t.UpdatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	var t task.Task

	err := r.pool.QueryRow(
		ctx,
		`SELECT id, title, description, completed, due_date, priority, created_at, updated_at
		 FROM tasks
		 WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.Priority, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) Create(ctx context.Context, req task.CreateTaskRequest) (task.Task, error) {
	now := time.Now().UTC()

	t := task.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO tasks (id, title, description, completed, due_date, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Title, t.Description, t.Completed, t.DueDate, t.Priority, t.CreatedAt, t.UpdatedAt,
	)

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) Update(ctx context.Context, id string, req task.UpdateTaskRequest) (task.Task, error) {
	var t task.Task

	err := r.pool.QueryRow(
		ctx,
		`UPDATE tasks
		    SET title = $2,
		        description = $3,
		        completed = $4,
		        due_date = $5,
		        priority = $6,
		        updated_at = NOW()
		  WHERE id = $1
		  RETURNING id, title, description, completed, due_date, priority, created_at, updated_at`,
		id, req.Title, req.Description, req.Completed, req.DueDate, req.Priority,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.Priority, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return task.ErrNotFound
	}

	return nil
}
