package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: make(map[string]Task)}
}

func (r *MemoryRepo) Create(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return Task{}, ErrNotFound
	}
	return task, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, f Filter) ([]Task, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	r.mu.RLock()
	matched := make([]Task, 0)
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(task.Title), q) {
			continue
		}
		if f.SubmitStatus != "" && task.SubmitStatus != f.SubmitStatus {
			continue
		}
		if f.JobID != "" && task.JobID != f.JobID {
			continue
		}
		if f.From != nil && task.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !task.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, task)
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

func (r *MemoryRepo) Update(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return ErrNotFound
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[id]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// DeleteByJob drops tasks of a removed job, mirroring the FK cascade.
func (r *MemoryRepo) DeleteByJob(userID, jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, task := range r.tasks {
		if task.UserID == userID && task.JobID == jobID {
			delete(r.tasks, id)
		}
	}
}
