package resumes

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resumes: make(map[string]Resume)}
}

func (m *MemoryRepo) roleTakenLocked(r Resume) bool {
	for _, existing := range m.resumes {
		if existing.ID != r.ID && existing.UserID == r.UserID && existing.JobRole == r.JobRole {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) Create(ctx context.Context, r Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roleTakenLocked(r) {
		return ErrRoleTaken
	}
	m.resumes[r.ID] = r
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) GetByRole(ctx context.Context, userID, role string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.resumes {
		if r.UserID == userID && r.JobRole == role {
			return r, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Resume, 0)
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, r Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.resumes[r.ID]
	if !ok || existing.UserID != r.UserID {
		return ErrNotFound
	}
	if m.roleTakenLocked(r) {
		return ErrRoleTaken
	}
	m.resumes[r.ID] = r
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.resumes[id]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(m.resumes, id)
	return nil
}
