package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobtracker-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, user_id, company_name, company_email, contact_name, company_website, job_title,
  job_role, location, job_url, description, notes, status, apply_status, response_status,
  email_send_status, apply_date, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.CompanyName,
		job.CompanyEmail,
		job.ContactName,
		job.CompanyWebsite,
		job.JobTitle,
		job.JobRole,
		job.Location,
		job.JobURL,
		job.Description,
		job.Notes,
		string(job.Status),
		string(job.ApplyStatus),
		string(job.ResponseStatus),
		string(job.EmailSendStatus),
		db.NullTime(job.ApplyDate),
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1 AND id = $2 LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// List returns one page of matching jobs, newest first, plus the total match count.
func (r *PGRepo) List(ctx context.Context, userID string, f Filter) ([]Job, int, error) {
	w := db.OwnedBy(userID)
	if q := strings.TrimSpace(f.Search); q != "" {
		p := w.Arg(db.ContainsPattern(q))
		w.Add(fmt.Sprintf("(company_name ILIKE %s OR job_title ILIKE %s)", p, p))
	}
	if f.Status != "" {
		w.Add("status = " + w.Arg(string(f.Status)))
	}
	if f.ApplyStatus != "" {
		w.Add("apply_status = " + w.Arg(string(f.ApplyStatus)))
	}
	if f.ResponseStatus != "" {
		w.Add("response_status = " + w.Arg(string(f.ResponseStatus)))
	}
	if f.From != nil {
		w.Add("created_at >= " + w.Arg(*f.From))
	}
	if f.To != nil {
		w.Add("created_at < " + w.Arg(*f.To))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT count(*) FROM jobs WHERE "+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	page := f.Page.Normalize()
	limitArg := w.Arg(page.Limit)
	offsetArg := w.Arg(page.Offset())
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + w.SQL() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + limitArg + ` OFFSET ` + offsetArg
	rows, err := r.DB.QueryContext(ctx, query, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]Job, 0, page.Limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, job)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs SET
  company_name = $3,
  company_email = $4,
  contact_name = $5,
  company_website = $6,
  job_title = $7,
  job_role = $8,
  location = $9,
  job_url = $10,
  description = $11,
  notes = $12,
  status = $13,
  apply_status = $14,
  response_status = $15,
  email_send_status = $16,
  apply_date = $17,
  updated_at = $18
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.CompanyName,
		job.CompanyEmail,
		job.ContactName,
		job.CompanyWebsite,
		job.JobTitle,
		job.JobRole,
		job.Location,
		job.JobURL,
		job.Description,
		job.Notes,
		string(job.Status),
		string(job.ApplyStatus),
		string(job.ResponseStatus),
		string(job.EmailSendStatus),
		db.NullTime(job.ApplyDate),
		job.UpdatedAt,
	)
	return db.ExpectOne(res, err, ErrNotFound)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	return db.ExpectOne(res, err, ErrNotFound)
}

func (r *PGRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	const query = `
SELECT status, apply_status, response_status, count(*)
FROM jobs
WHERE user_id = $1
GROUP BY status, apply_status, response_status`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := newStats()
	for rows.Next() {
		var status, apply, response string
		var n int
		if err := rows.Scan(&status, &apply, &response, &n); err != nil {
			return Stats{}, err
		}
		stats.Total += n
		stats.ByStatus[Status(status)] += n
		stats.ByApplyStatus[ApplyStatus(apply)] += n
		stats.ByResponseStatus[ResponseStatus(response)] += n
	}
	return stats, rows.Err()
}

func (r *PGRepo) MarkEmailSent(ctx context.Context, userID, id string, application bool, at time.Time) error {
	query := `UPDATE jobs SET email_send_status = 'SENT', updated_at = $3 WHERE id = $1 AND user_id = $2`
	if application {
		query = `
UPDATE jobs SET
  email_send_status = 'SENT',
  apply_status = 'APPLIED',
  status = 'APPLIED',
  apply_date = $3,
  updated_at = $3
WHERE id = $1 AND user_id = $2`
	}
	res, err := r.DB.ExecContext(ctx, query, id, userID, at)
	return db.ExpectOne(res, err, ErrNotFound)
}

func (r *PGRepo) Summaries(ctx context.Context, userID string, ids []string) (map[string]Summary, error) {
	out := make(map[string]Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const query = `SELECT id, company_name, job_title FROM jobs WHERE user_id = $1 AND id = ANY($2::uuid[])`
	rows, err := r.DB.QueryContext(ctx, query, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("job summaries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.JobTitle); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var status, apply, response, emailStatus string
	var applyDate sql.NullTime
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.CompanyName,
		&job.CompanyEmail,
		&job.ContactName,
		&job.CompanyWebsite,
		&job.JobTitle,
		&job.JobRole,
		&job.Location,
		&job.JobURL,
		&job.Description,
		&job.Notes,
		&status,
		&apply,
		&response,
		&emailStatus,
		&applyDate,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return Job{}, err
	}
	job.Status = Status(status)
	job.ApplyStatus = ApplyStatus(apply)
	job.ResponseStatus = ResponseStatus(response)
	job.EmailSendStatus = EmailSendStatus(emailStatus)
	job.ApplyDate = db.TimePtr(applyDate)
	return job, nil
}
