package jobs

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("job not found")

// Repo persists jobs. Every method is scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, userID, id string) (Job, error)
	List(ctx context.Context, userID string, f Filter) ([]Job, int, error)
	Update(ctx context.Context, job Job) error
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (Stats, error)
	// MarkEmailSent sets emailSendStatus=SENT and, for applications, the applied fields.
	MarkEmailSent(ctx context.Context, userID, id string, application bool, at time.Time) error
	Summaries(ctx context.Context, userID string, ids []string) (map[string]Summary, error)
}
