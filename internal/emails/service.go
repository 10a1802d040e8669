package emails

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/ai"
	"jobtracker-backend/internal/extract"
	"jobtracker-backend/internal/jobs"
	"jobtracker-backend/internal/mailer"
	"jobtracker-backend/internal/resumes"
	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/metrics"
	"jobtracker-backend/internal/shared/paging"
	"jobtracker-backend/internal/shared/storage/object"
	"jobtracker-backend/internal/shared/telemetry"
	"jobtracker-backend/internal/users"
)

const maxAttachmentBytes = 10 << 20

type UserLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type JobStore interface {
	Get(ctx context.Context, userID, id string) (jobs.Job, error)
	MarkEmailSent(ctx context.Context, userID, id string, application bool) error
	Summaries(ctx context.Context, userID string, ids []string) (map[string]jobs.Summary, error)
}

type ResumeSource interface {
	Get(ctx context.Context, userID, id string) (resumes.Resume, error)
	List(ctx context.Context, userID string) ([]resumes.Resume, error)
	ForRole(ctx context.Context, userID, role string) (resumes.Resume, bool, error)
}

// Generator is the provider-selecting side of ai.Registry.
type Generator interface {
	Generate(ctx context.Context, provider ai.Provider, prompt string) (string, error)
}

type Deps struct {
	Repo    Repo
	Users   UserLookup
	Jobs    JobStore
	Resumes ResumeSource
	Store   object.FileStore
	AI      Generator
	Mail    mailer.Sender
	From    mailer.Address
}

type Service struct {
	Deps
	now func() time.Time
}

func NewService(deps Deps) *Service {
	return &Service{Deps: deps, now: func() time.Time { return time.Now().UTC() }}
}

// GenerateApplication drafts an application email for one of the caller's jobs.
// Nothing is persisted.
func (s *Service) GenerateApplication(ctx context.Context, userID, jobID string, provider ai.Provider) (Generated, error) {
	if !provider.Valid() {
		return Generated{}, apperr.New(apperr.ErrUnsupportedProvider, fmt.Sprintf("unsupported AI provider %q", provider))
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Generated{}, err
	}
	job, err := s.Jobs.Get(ctx, userID, jobID)
	if err != nil {
		return Generated{}, err
	}

	prompt := BuildApplicationPrompt(ApplicationInput{
		User:       user,
		Job:        job,
		ResumeText: s.resumeText(ctx, userID, job),
	})
	return s.generate(ctx, provider, prompt)
}

// GenerateReply drafts a reply to one of the caller's stored emails.
func (s *Service) GenerateReply(ctx context.Context, userID, emailID, instruction string, provider ai.Provider) (Generated, error) {
	if !provider.Valid() {
		return Generated{}, apperr.New(apperr.ErrUnsupportedProvider, fmt.Sprintf("unsupported AI provider %q", provider))
	}
	original, err := s.lookup(ctx, userID, emailID)
	if err != nil {
		return Generated{}, err
	}
	if original == nil {
		return Generated{}, apperr.NotFound("email not found")
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Generated{}, err
	}
	prompt := BuildReplyPrompt(ReplyInput{Original: *original, Instruction: instruction, User: user})
	return s.generate(ctx, provider, prompt)
}

func (s *Service) generate(ctx context.Context, provider ai.Provider, prompt string) (Generated, error) {
	raw, err := s.AI.Generate(ctx, provider, prompt)
	if err != nil {
		return Generated{}, err
	}
	metrics.IncEmailsGenerated()
	return ParseGenerated(raw), nil
}

// resumeText returns the extracted text of the resume stored for the job's
// role. Any failure is logged and yields an empty string.
func (s *Service) resumeText(ctx context.Context, userID string, job jobs.Job) string {
	if s.Resumes == nil || s.Store == nil {
		return ""
	}
	role := job.JobRole
	if strings.TrimSpace(role) == "" {
		role = job.JobTitle
	}
	res, ok, err := s.Resumes.ForRole(ctx, userID, role)
	if err != nil || !ok {
		if err != nil {
			telemetry.Warn("email.resume_lookup_failed", map[string]any{"job_id": job.ID, "error": err})
		}
		return ""
	}
	data, err := s.Store.FetchBytes(ctx, res.PublicID)
	if err != nil {
		telemetry.Warn("email.resume_fetch_failed", map[string]any{"resume_id": res.ID, "error": err})
		return ""
	}
	text, err := extract.TextFromBytes(ctx, data, res.MimeType, res.FileName)
	if err != nil {
		telemetry.Warn("email.resume_extract_failed", map[string]any{"resume_id": res.ID, "error": err})
		return ""
	}
	return text
}

// Send delivers an email and records the attempt. Every attempt that reaches
// the attachment or transport step leaves a row: SENT on success, FAILED with
// the cause otherwise.
func (s *Service) Send(ctx context.Context, in SendInput) (Email, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Content) == "" {
		return Email{}, apperr.Validation("subject and content are required")
	}
	if !in.EmailType.valid() {
		return Email{}, apperr.Validation(fmt.Sprintf("invalid emailType %q", in.EmailType))
	}
	if !in.AIProvider.Valid() {
		return Email{}, apperr.New(apperr.ErrUnsupportedProvider, fmt.Sprintf("unsupported AI provider %q", in.AIProvider))
	}

	user, err := s.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return Email{}, err
	}
	job, err := s.Jobs.Get(ctx, in.UserID, in.JobID)
	if err != nil {
		return Email{}, err
	}
	to := strings.TrimSpace(in.To)
	if to == "" {
		to = job.CompanyEmail
	}
	if to == "" || !strings.Contains(to, "@") {
		return Email{}, apperr.Validation("a valid recipient is required")
	}

	record := Email{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		JobID:      job.ID,
		Recipient:  to,
		Subject:    strings.TrimSpace(in.Subject),
		Content:    in.Content,
		AIProvider: in.AIProvider,
		EmailType:  in.EmailType,
	}

	msg := mailer.Message{
		From:    s.sender(user),
		To:      []string{to},
		Subject: record.Subject,
		Text:    in.Content,
		HTML:    mailer.TextToHTML(in.Content),
	}
	att, err := s.attachment(ctx, in)
	if err != nil {
		return s.fail(ctx, record, err)
	}
	if att != nil {
		msg.Attachments = []mailer.Attachment{*att}
	}

	start := time.Now()
	err = s.Mail.Send(ctx, msg)
	metrics.ObserveEmailSendDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return s.fail(ctx, record, err)
	}

	now := s.now()
	record.Status = StatusSent
	record.SentAt = &now
	record.CreatedAt = now
	metrics.IncEmailsSent()
	// The message is already out; a failed insert must not invite a resend.
	if err := s.Repo.Create(context.WithoutCancel(ctx), record); err != nil {
		telemetry.Error("email.record_failed", map[string]any{"email_id": record.ID, "job_id": job.ID, "status": string(StatusSent), "error": err})
	}
	if err := s.Jobs.MarkEmailSent(ctx, in.UserID, job.ID, in.EmailType == TypeApplication); err != nil {
		telemetry.Error("email.job_update_failed", map[string]any{"email_id": record.ID, "job_id": job.ID, "error": err})
	}
	telemetry.Info("email.sent", map[string]any{
		"email_id":    record.ID,
		"job_id":      job.ID,
		"email_type":  string(record.EmailType),
		"ai_provider": string(record.AIProvider),
		"attachment":  att != nil,
	})
	return record, nil
}

// fail records a FAILED attempt and returns the send error. A failure to
// record is logged and does not replace the send error.
func (s *Service) fail(ctx context.Context, record Email, cause error) (Email, error) {
	metrics.IncEmailsFailed()
	record.Status = StatusFailed
	record.ErrorMessage = cause.Error()
	record.CreatedAt = s.now()
	if err := s.Repo.Create(context.WithoutCancel(ctx), record); err != nil {
		telemetry.Error("email.record_failed", map[string]any{"email_id": record.ID, "job_id": record.JobID, "error": err})
	}
	telemetry.Error("email.send_failed", map[string]any{
		"email_id": record.ID,
		"job_id":   record.JobID,
		"error":    cause,
	})
	return record, apperr.Wrap(apperr.ErrSendFailed, "failed to send email", cause)
}

func (s *Service) sender(user users.User) mailer.Address {
	from := s.From
	if name := strings.TrimSpace(user.Name); name != "" {
		from.Name = name
	}
	if from.Email == "" {
		from.Email = user.Email
	}
	return from
}

// attachment resolves the optional attachment. Only the caller's own stored
// resumes can be attached, by id or by their file URL; bytes always come from
// the file store, which presigns reads on S3.
func (s *Service) attachment(ctx context.Context, in SendInput) (*mailer.Attachment, error) {
	var (
		res resumes.Resume
		err error
	)
	switch {
	case strings.TrimSpace(in.ResumeID) != "":
		res, err = s.Resumes.Get(ctx, in.UserID, in.ResumeID)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrAttachmentFetch, "resume not available", err)
		}
	case strings.TrimSpace(in.AttachmentURL) != "":
		res, err = s.resumeByURL(ctx, in.UserID, strings.TrimSpace(in.AttachmentURL))
		if err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}

	data, err := s.Store.FetchBytes(ctx, res.PublicID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrAttachmentFetch, "unable to fetch resume file", err)
	}
	if len(data) > maxAttachmentBytes {
		return nil, apperr.New(apperr.ErrAttachmentFetch, "attachment is too large")
	}
	return &mailer.Attachment{Filename: res.FileName, ContentType: res.MimeType, Data: data}, nil
}

func (s *Service) resumeByURL(ctx context.Context, userID, raw string) (resumes.Resume, error) {
	owned, err := s.Resumes.List(ctx, userID)
	if err != nil {
		return resumes.Resume{}, apperr.Wrap(apperr.ErrAttachmentFetch, "resume not available", err)
	}
	for _, r := range owned {
		if r.FileURL != "" && r.FileURL == raw {
			return r, nil
		}
	}
	return resumes.Resume{}, apperr.New(apperr.ErrAttachmentFetch, "attachment URL does not match any of your resumes")
}

// List returns one page of the caller's emails, newest first, each joined with its job.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]EmailWithJob, paging.Meta, error) {
	if f.EmailType != "" && !f.EmailType.valid() {
		return nil, paging.Meta{}, apperr.Validation("invalid emailType filter")
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

	ids := make([]string, 0, len(items))
	for _, e := range items {
		ids = append(ids, e.JobID)
	}
	summaries, err := s.Jobs.Summaries(ctx, userID, ids)
	if err != nil {
		return nil, paging.Meta{}, err
	}
	out := make([]EmailWithJob, 0, len(items))
	for _, e := range items {
		out = append(out, withJob(e, summaries))
	}
	return out, paging.NewMeta(f.Page, total), nil
}

// Get returns the caller's email, or nil when there is none.
func (s *Service) Get(ctx context.Context, userID, id string) (*EmailWithJob, error) {
	e, err := s.lookup(ctx, userID, id)
	if err != nil || e == nil {
		return nil, err
	}
	summaries, err := s.Jobs.Summaries(ctx, userID, []string{e.JobID})
	if err != nil {
		return nil, err
	}
	out := withJob(*e, summaries)
	return &out, nil
}

func (s *Service) lookup(ctx context.Context, userID, id string) (*Email, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	e, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func withJob(e Email, summaries map[string]jobs.Summary) EmailWithJob {
	out := EmailWithJob{Email: e}
	if sum, ok := summaries[e.JobID]; ok {
		out.Job = &sum
	}
	return out
}
