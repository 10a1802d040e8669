package emails

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	emails map[string]Email
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{emails: make(map[string]Email)}
}

func (r *MemoryRepo) Create(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails[e.ID] = e
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Email, error) {
	if err := ctx.Err(); err != nil {
		return Email{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.emails[id]
	if !ok || e.UserID != userID {
		return Email{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, f Filter) ([]Email, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	matched := make([]Email, 0)
	for _, e := range r.emails {
		if e.UserID != userID {
			continue
		}
		if f.EmailType != "" && e.EmailType != f.EmailType {
			continue
		}
		if f.JobID != "" && e.JobID != f.JobID {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	start, end := f.Page.Window(len(matched))
	return matched[start:end], len(matched), nil
}

// DeleteByJob drops emails of a removed job, mirroring the FK cascade.
func (r *MemoryRepo) DeleteByJob(userID, jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.emails {
		if e.UserID == userID && e.JobID == jobID {
			delete(r.emails, id)
		}
	}
}
