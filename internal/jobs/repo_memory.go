package jobs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok || job.UserID != userID {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, f Filter) ([]Job, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	matched := make([]Job, 0)
	for _, job := range r.jobs {
		if job.UserID == userID && matches(job, f) {
			matched = append(matched, job)
		}
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

func matches(job Job, f Filter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(job.CompanyName), q) && !strings.Contains(strings.ToLower(job.JobTitle), q) {
			return false
		}
	}
	if f.Status != "" && job.Status != f.Status {
		return false
	}
	if f.ApplyStatus != "" && job.ApplyStatus != f.ApplyStatus {
		return false
	}
	if f.ResponseStatus != "" && job.ResponseStatus != f.ResponseStatus {
		return false
	}
	if f.From != nil && job.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !job.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

func (r *MemoryRepo) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok || existing.UserID != job.UserID {
		return ErrNotFound
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[id]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *MemoryRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := newStats()
	for _, job := range r.jobs {
		if job.UserID != userID {
			continue
		}
		stats.Total++
		stats.ByStatus[job.Status]++
		stats.ByApplyStatus[job.ApplyStatus]++
		stats.ByResponseStatus[job.ResponseStatus]++
	}
	return stats, nil
}

func (r *MemoryRepo) MarkEmailSent(ctx context.Context, userID, id string, application bool, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.UserID != userID {
		return ErrNotFound
	}
	if application {
		applied := at
		job.ApplyStatus = ApplyApplied
		job.ApplyDate = &applied
		job.Status = StatusApplied
	}
	job.EmailSendStatus = EmailSent
	job.UpdatedAt = at
	r.jobs[id] = job
	return nil
}

func (r *MemoryRepo) Summaries(ctx context.Context, userID string, ids []string) (map[string]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Summary, len(ids))
	for _, id := range ids {
		if job, ok := r.jobs[id]; ok && job.UserID == userID {
			out[id] = Summary{ID: job.ID, CompanyName: job.CompanyName, JobTitle: job.JobTitle}
		}
	}
	return out, nil
}
