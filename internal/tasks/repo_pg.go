package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobtracker-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const taskColumns = `id, user_id, job_id, title, description, deadline, submit_status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, task Task) error {
	const query = `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.JobID,
		task.Title,
		task.Description,
		task.Deadline,
		string(task.SubmitStatus),
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND id = $2 LIMIT 1`
	task, err := scanTask(r.DB.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

func (r *PGRepo) List(ctx context.Context, userID string, f Filter) ([]Task, int, error) {
	w := db.OwnedBy(userID)
	if q := strings.TrimSpace(f.Search); q != "" {
		w.Add("title ILIKE " + w.Arg(db.ContainsPattern(q)))
	}
	if f.SubmitStatus != "" {
		w.Add("submit_status = " + w.Arg(string(f.SubmitStatus)))
	}
	if f.JobID != "" {
		w.Add("job_id = " + w.Arg(f.JobID))
	}
	if f.From != nil {
		w.Add("created_at >= " + w.Arg(*f.From))
	}
	if f.To != nil {
		w.Add("created_at < " + w.Arg(*f.To))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT count(*) FROM tasks WHERE "+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	page := f.Page.Normalize()
	limitArg := w.Arg(page.Limit)
	offsetArg := w.Arg(page.Offset())
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + w.SQL() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + limitArg + ` OFFSET ` + offsetArg
	rows, err := r.DB.QueryContext(ctx, query, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]Task, 0, page.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, task)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, task Task) error {
	const query = `
UPDATE tasks SET
  title = $3,
  description = $4,
  deadline = $5,
  submit_status = $6,
  updated_at = $7
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Deadline,
		string(task.SubmitStatus),
		task.UpdatedAt,
	)
	return db.ExpectOne(res, err, ErrNotFound)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return db.ExpectOne(res, err, ErrNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var task Task
	var status string
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.JobID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return Task{}, err
	}
	task.SubmitStatus = SubmitStatus(status)
	return task, nil
}
