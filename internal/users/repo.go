package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	GetByID(ctx context.Context, userID string) (User, error)
	// Save writes every profile field, inserting the row when missing.
	Save(ctx context.Context, user User) (User, error)
	// UpsertIdentity refreshes login fields without touching the profile.
	UpsertIdentity(ctx context.Context, user User) error
}
