package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Where accumulates AND-ed conditions with positional arguments.
type Where struct {
	conds []string
	args  []any
}

// OwnedBy starts a condition list scoped to user_id = $1.
func OwnedBy(userID string) *Where {
	return &Where{conds: []string{"user_id = $1"}, args: []any{userID}}
}

// Arg appends v and returns its placeholder.
func (w *Where) Arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// Add appends a condition.
func (w *Where) Add(cond string) {
	w.conds = append(w.conds, cond)
}

// SQL renders the conditions without the WHERE keyword.
func (w *Where) SQL() string {
	return strings.Join(w.conds, " AND ")
}

// Args returns the positional arguments collected so far.
func (w *Where) Args() []any {
	return w.args
}

// ContainsPattern builds an ILIKE pattern matching s anywhere, with wildcards escaped.
func ContainsPattern(s string) string {
	return "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s) + "%"
}

// ExpectOne maps a zero-row exec result to notFound.
func ExpectOne(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// NullTime converts an optional time for a nullable column.
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// TimePtr converts a nullable column into an optional time.
func TimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
