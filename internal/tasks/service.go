package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/jobs"
	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/paging"
)

// JobLookup resolves a job owned by the caller.
type JobLookup interface {
	Get(ctx context.Context, userID, id string) (jobs.Job, error)
}

type Service struct {
	Repo Repo
	Jobs JobLookup
	now  func() time.Time
}

func NewService(repo Repo, jobs JobLookup) *Service {
	return &Service{Repo: repo, Jobs: jobs, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a task for one of the caller's jobs. The submit status is
// derived from the deadline once, here, and is not re-evaluated later.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.JobID) == "" {
		return Task{}, apperr.Validation("jobId is required")
	}
	if in.Deadline.IsZero() {
		return Task{}, apperr.Validation("deadline is required")
	}
	if _, err := s.Jobs.Get(ctx, userID, in.JobID); err != nil {
		return Task{}, err
	}

	now := s.now()
	status := SubmitPending
	if in.Deadline.Before(now) {
		status = SubmitOverdue
	}
	task := Task{
		ID:           uuid.NewString(),
		UserID:       userID,
		JobID:        in.JobID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Deadline:     in.Deadline.UTC(),
		SubmitStatus: status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, task); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Task{}, apperr.NotFound("task not found")
	}
	task, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Task{}, apperr.NotFound("task not found")
		}
		return Task{}, err
	}
	return task, nil
}

func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Task, paging.Meta, error) {
	if f.SubmitStatus != "" && !f.SubmitStatus.valid() {
		return nil, paging.Meta{}, apperr.Validation("invalid submitStatus filter")
	}
	if f.JobID != "" {
		if _, err := uuid.Parse(f.JobID); err != nil {
			return nil, paging.Meta{}, apperr.Validation("invalid jobId filter")
		}
	}
	f.Page = f.Page.Normalize()
	items, total, err := s.Repo.List(ctx, userID, f)
	if err != nil {
		return nil, paging.Meta{}, err
	}
	return items, paging.NewMeta(f.Page, total), nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return Task{}, apperr.Validation("title cannot be empty")
	}
	if in.SubmitStatus != nil && !in.SubmitStatus.valid() {
		return Task{}, apperr.Validation(fmt.Sprintf("invalid submitStatus %q", *in.SubmitStatus))
	}
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}
	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Deadline != nil {
		task.Deadline = in.Deadline.UTC()
	}
	if in.SubmitStatus != nil {
		task.SubmitStatus = *in.SubmitStatus
	}
	task.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, task); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Task{}, apperr.NotFound("task not found")
		}
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("task not found")
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
