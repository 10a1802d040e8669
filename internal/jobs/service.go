package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/paging"
)

type Service struct {
	Repo Repo
	now  func() time.Time

	onDelete []func(userID, jobID string)
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Job, error) {
	if strings.TrimSpace(userID) == "" {
		return Job{}, apperr.New(apperr.ErrUnauthorized, "missing identity")
	}
	if in.CompanyName == nil || strings.TrimSpace(*in.CompanyName) == "" {
		return Job{}, apperr.Validation("companyName is required")
	}
	if in.JobTitle == nil || strings.TrimSpace(*in.JobTitle) == "" {
		return Job{}, apperr.Validation("jobTitle is required")
	}
	if err := in.validate(); err != nil {
		return Job{}, err
	}

	now := s.now()
	job := Job{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          StatusSaved,
		ApplyStatus:     ApplyNotApplied,
		ResponseStatus:  ResponsePending,
		EmailSendStatus: EmailNotSent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job = in.apply(job)
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Job{}, apperr.NotFound("job not found")
	}
	job, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Job{}, apperr.NotFound("job not found")
		}
		return Job{}, err
	}
	return job, nil
}

func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Job, paging.Meta, error) {
	if f.Status != "" && !f.Status.valid() {
		return nil, paging.Meta{}, apperr.Validation("invalid status filter")
	}
	if f.ApplyStatus != "" && !f.ApplyStatus.valid() {
		return nil, paging.Meta{}, apperr.Validation("invalid applyStatus filter")
	}
	if f.ResponseStatus != "" && !f.ResponseStatus.valid() {
		return nil, paging.Meta{}, apperr.Validation("invalid responseStatus filter")
	}
	f.Page = f.Page.Normalize()
	items, total, err := s.Repo.List(ctx, userID, f)
	if err != nil {
		return nil, paging.Meta{}, err
	}
	return items, paging.NewMeta(f.Page, total), nil
}

// Update applies the non-nil fields of in to an existing job.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Job, error) {
	if err := in.validate(); err != nil {
		return Job{}, err
	}
	if in.CompanyName != nil && strings.TrimSpace(*in.CompanyName) == "" {
		return Job{}, apperr.Validation("companyName cannot be empty")
	}
	if in.JobTitle != nil && strings.TrimSpace(*in.JobTitle) == "" {
		return Job{}, apperr.Validation("jobTitle cannot be empty")
	}
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return Job{}, err
	}
	updated := in.apply(current)
	updated.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Job{}, apperr.NotFound("job not found")
		}
		return Job{}, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("job not found")
		}
		return fmt.Errorf("delete job: %w", err)
	}
	for _, fn := range s.onDelete {
		fn(userID, id)
	}
	return nil
}

// OnDelete registers fn to run after a job is deleted. The in-memory stores
// use it to drop dependent rows the way the database cascade does.
func (s *Service) OnDelete(fn func(userID, jobID string)) {
	s.onDelete = append(s.onDelete, fn)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.Repo.Stats(ctx, userID)
}

// MarkEmailSent records a successful send against the job.
func (s *Service) MarkEmailSent(ctx context.Context, userID, id string, application bool) error {
	err := s.Repo.MarkEmailSent(ctx, userID, id, application, s.now())
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("job not found")
	}
	return err
}

// Summaries returns the owned jobs among ids, keyed by id. Missing ids are omitted.
func (s *Service) Summaries(ctx context.Context, userID string, ids []string) (map[string]Summary, error) {
	valid := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return s.Repo.Summaries(ctx, userID, valid)
}

func (in Input) validate() error {
	if in.Status != nil && !in.Status.valid() {
		return apperr.Validation(fmt.Sprintf("invalid status %q", *in.Status))
	}
	if in.ApplyStatus != nil && !in.ApplyStatus.valid() {
		return apperr.Validation(fmt.Sprintf("invalid applyStatus %q", *in.ApplyStatus))
	}
	if in.ResponseStatus != nil && !in.ResponseStatus.valid() {
		return apperr.Validation(fmt.Sprintf("invalid responseStatus %q", *in.ResponseStatus))
	}
	if in.EmailSendStatus != nil && !in.EmailSendStatus.valid() {
		return apperr.Validation(fmt.Sprintf("invalid emailSendStatus %q", *in.EmailSendStatus))
	}
	if in.CompanyEmail != nil {
		if v := strings.TrimSpace(*in.CompanyEmail); v != "" && !strings.Contains(v, "@") {
			return apperr.Validation("companyEmail must be a valid address")
		}
	}
	return nil
}

func (in Input) apply(job Job) Job {
	setString(&job.CompanyName, in.CompanyName)
	setString(&job.CompanyEmail, in.CompanyEmail)
	setString(&job.ContactName, in.ContactName)
	setString(&job.CompanyWebsite, in.CompanyWebsite)
	setString(&job.JobTitle, in.JobTitle)
	setString(&job.JobRole, in.JobRole)
	setString(&job.Location, in.Location)
	setString(&job.JobURL, in.JobURL)
	setString(&job.Description, in.Description)
	setString(&job.Notes, in.Notes)
	if in.Status != nil {
		job.Status = *in.Status
	}
	if in.ApplyStatus != nil {
		job.ApplyStatus = *in.ApplyStatus
	}
	if in.ResponseStatus != nil {
		job.ResponseStatus = *in.ResponseStatus
	}
	if in.EmailSendStatus != nil {
		job.EmailSendStatus = *in.EmailSendStatus
	}
	if in.ApplyDate != nil {
		t := in.ApplyDate.UTC()
		job.ApplyDate = &t
	}
	return job
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
