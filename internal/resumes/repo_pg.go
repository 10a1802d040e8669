package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobtracker-backend/internal/shared/storage/db"
)

const roleConstraint = "resumes_user_role_key"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, job_role, file_name, file_url, public_id, mime_type, size_bytes, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `INSERT INTO resumes (` + resumeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.JobRole,
		res.FileName,
		res.FileURL,
		res.PublicID,
		res.MimeType,
		res.SizeBytes,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if db.IsUniqueViolation(err, roleConstraint) {
		return ErrRoleTaken
	}
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND id = $2 LIMIT 1`
	return r.getOne(ctx, query, userID, id)
}

func (r *PGRepo) GetByRole(ctx context.Context, userID, role string) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND job_role = $2 LIMIT 1`
	return r.getOne(ctx, query, userID, role)
}

func (r *PGRepo) getOne(ctx context.Context, query string, args ...any) (Resume, error) {
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, res Resume) error {
	const query = `
UPDATE resumes SET
  job_role = $3,
  file_name = $4,
  file_url = $5,
  public_id = $6,
  mime_type = $7,
  size_bytes = $8,
  updated_at = $9
WHERE id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.JobRole,
		res.FileName,
		res.FileURL,
		res.PublicID,
		res.MimeType,
		res.SizeBytes,
		res.UpdatedAt,
	)
	if db.IsUniqueViolation(err, roleConstraint) {
		return ErrRoleTaken
	}
	return db.ExpectOne(result, err, ErrNotFound)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	return db.ExpectOne(res, err, ErrNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.JobRole,
		&res.FileName,
		&res.FileURL,
		&res.PublicID,
		&res.MimeType,
		&res.SizeBytes,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	return res, err
}
