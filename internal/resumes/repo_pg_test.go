package resumes

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"jobtracker-backend/internal/shared/apperr"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO resumes")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_user_role_key"})

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	err = repo.Create(context.Background(), Resume{ID: "r-1", UserID: "user-1", JobRole: "SRE", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, ErrRoleTaken) {
		t.Fatalf("expected ErrRoleTaken, got %v", err)
	}
}

func TestPGRepoGetByRoleNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM resumes WHERE user_id = $1 AND job_role = $2")).
		WithArgs("user-1", "SRE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByRole(context.Background(), "user-1", "SRE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE resumes SET")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_user_role_key"})

	repo := &PGRepo{DB: db}
	if err := repo.Update(context.Background(), Resume{ID: "r-1", UserID: "user-1"}); !errors.Is(err, ErrRoleTaken) {
		t.Fatalf("expected ErrRoleTaken, got %v", err)
	}
}

func TestReplaceRejectsUnknownIDBeforeUpload(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	missing := "7b7c1f9e-3b55-4a4e-9b39-0d6f3c2a9e11"
	mock.ExpectQuery(regexp.QuoteMeta("FROM resumes WHERE user_id = $1 AND id = $2")).
		WithArgs("user-1", missing).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := newFakeStore()
	svc := NewService(&PGRepo{DB: db}, store, "resumes")

	for _, id := range []string{"abc", missing} {
		_, err := svc.Replace(context.Background(), "user-1", id, nil, "cv.pdf", strings.NewReader("%PDF"))
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("Replace(%q): expected ErrNotFound, got %v", id, err)
		}
	}
	if len(store.objects) != 0 || store.seq != 0 {
		t.Fatalf("expected no upload, store has %d objects after %d uploads", len(store.objects), store.seq)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateRejectsMalformedIDAndCompensates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := newFakeStore()
	obj, err := store.Upload(context.Background(), "resumes", "cv.pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	svc := NewService(&PGRepo{DB: db}, store, "resumes")

	_, err = svc.Update(context.Background(), UpdateInput{UserID: "user-1", ID: "abc", File: &obj})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := store.objects[obj.PublicID]; ok {
		t.Fatalf("expected new upload to be deleted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
