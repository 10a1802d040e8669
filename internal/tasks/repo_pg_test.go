package tasks

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"jobtracker-backend/internal/shared/paging"
)

func TestPGRepoListQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	jobID := "22222222-2222-2222-2222-222222222222"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM tasks WHERE user_id = $1 AND title ILIKE $2 AND submit_status = $3 AND job_id = $4")).
		WithArgs("user-1", "%prep%", "OVERDUE", jobID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE user_id = $1 AND title ILIKE $2 AND submit_status = $3 AND job_id = $4 ORDER BY created_at DESC, id DESC LIMIT $5 OFFSET $6")).
		WithArgs("user-1", "%prep%", "OVERDUE", jobID, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "job_id", "title", "description", "deadline", "submit_status", "created_at", "updated_at",
		}).AddRow("t-1", "user-1", jobID, "Prep", "", now, "OVERDUE", now, now))

	repo := &PGRepo{DB: db}
	items, total, err := repo.List(context.Background(), "user-1", Filter{
		Search:       "prep",
		SubmitStatus: SubmitOverdue,
		JobID:        jobID,
		Page:         paging.Params{Page: 1, Limit: 10},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].SubmitStatus != SubmitOverdue {
		t.Fatalf("unexpected result: total=%d items=%+v", total, items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND user_id = $2")).
		WithArgs("t-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.Delete(context.Background(), "user-1", "t-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
