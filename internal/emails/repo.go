package emails

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("email not found")

// Repo stores email records. There is no update: each attempt is a new row.
type Repo interface {
	Create(ctx context.Context, e Email) error
	Get(ctx context.Context, userID, id string) (Email, error)
	List(ctx context.Context, userID string, f Filter) ([]Email, int, error)
}
