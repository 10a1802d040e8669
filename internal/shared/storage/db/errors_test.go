package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	violation := &pgconn.PgError{Code: "23505", ConstraintName: "resumes_user_role_key"}

	if !IsUniqueViolation(fmt.Errorf("insert: %w", violation), "") {
		t.Fatalf("expected wrapped violation to match")
	}
	if !IsUniqueViolation(violation, "resumes_user_role_key") {
		t.Fatalf("expected named constraint to match")
	}
	if IsUniqueViolation(violation, "other_key") {
		t.Fatalf("unexpected match for other constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatalf("foreign key violation should not match")
	}
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Fatalf("plain error should not match")
	}
}
