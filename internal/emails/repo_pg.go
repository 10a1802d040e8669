package emails

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobtracker-backend/internal/ai"
	"jobtracker-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const emailColumns = `id, user_id, job_id, recipient, subject, content, ai_provider, email_type, status,
  error_message, sent_at, created_at`

func (r *PGRepo) Create(ctx context.Context, e Email) error {
	const query = `INSERT INTO emails (` + emailColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.JobID,
		e.Recipient,
		e.Subject,
		e.Content,
		string(e.AIProvider),
		string(e.EmailType),
		string(e.Status),
		e.ErrorMessage,
		db.NullTime(e.SentAt),
		e.CreatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Email, error) {
	const query = `SELECT ` + emailColumns + ` FROM emails WHERE user_id = $1 AND id = $2 LIMIT 1`
	e, err := scanEmail(r.DB.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Email{}, ErrNotFound
	}
	return e, err
}

func (r *PGRepo) List(ctx context.Context, userID string, f Filter) ([]Email, int, error) {
	w := db.OwnedBy(userID)
	if f.EmailType != "" {
		w.Add("email_type = " + w.Arg(string(f.EmailType)))
	}
	if f.JobID != "" {
		w.Add("job_id = " + w.Arg(f.JobID))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT count(*) FROM emails WHERE "+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emails: %w", err)
	}

	page := f.Page.Normalize()
	limitArg := w.Arg(page.Limit)
	offsetArg := w.Arg(page.Offset())
	query := `SELECT ` + emailColumns + ` FROM emails WHERE ` + w.SQL() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + limitArg + ` OFFSET ` + offsetArg
	rows, err := r.DB.QueryContext(ctx, query, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	out := make([]Email, 0, page.Limit)
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmail(row rowScanner) (Email, error) {
	var e Email
	var provider, emailType, status string
	var sentAt sql.NullTime
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.JobID,
		&e.Recipient,
		&e.Subject,
		&e.Content,
		&provider,
		&emailType,
		&status,
		&e.ErrorMessage,
		&sentAt,
		&e.CreatedAt,
	); err != nil {
		return Email{}, err
	}
	e.AIProvider = ai.Provider(provider)
	e.EmailType = Type(emailType)
	e.Status = Status(status)
	e.SentAt = db.TimePtr(sentAt)
	return e, nil
}
