package resumes

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("resume not found")
	// ErrRoleTaken is returned when (userId, jobRole) is already in use.
	ErrRoleTaken = errors.New("resume role already taken")
)

type Repo interface {
	Create(ctx context.Context, r Resume) error
	Get(ctx context.Context, userID, id string) (Resume, error)
	GetByRole(ctx context.Context, userID, role string) (Resume, error)
	List(ctx context.Context, userID string) ([]Resume, error)
	Update(ctx context.Context, r Resume) error
	Delete(ctx context.Context, userID, id string) error
}
