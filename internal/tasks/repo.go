package tasks

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("task not found")

// Repo persists tasks scoped to their owner.
type Repo interface {
	Create(ctx context.Context, task Task) error
	Get(ctx context.Context, userID, id string) (Task, error)
	List(ctx context.Context, userID string, f Filter) ([]Task, int, error)
	Update(ctx context.Context, task Task) error
	Delete(ctx context.Context, userID, id string) error
}
