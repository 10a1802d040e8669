package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/metrics"
	"jobtracker-backend/internal/shared/storage/object"
	"jobtracker-backend/internal/shared/telemetry"
	"jobtracker-backend/internal/shared/util"
)

const compensateTimeout = 10 * time.Second

var allowedMimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

type Service struct {
	Repo   Repo
	Store  object.FileStore
	Folder string
	now    func() time.Time
}

func NewService(repo Repo, store object.FileStore, folder string) *Service {
	if folder == "" {
		folder = "resumes"
	}
	return &Service{
		Repo:   repo,
		Store:  store,
		Folder: folder,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create records an uploaded file as the resume for its role. The uploaded
// file is removed again whenever the row cannot be written.
func (s *Service) Create(ctx context.Context, in CreateInput) (Resume, error) {
	role := NormalizeRole(in.JobRole)
	if role == "" {
		s.compensate(ctx, in.File.PublicID, "missing_role")
		return Resume{}, apperr.Validation("jobRole is required")
	}

	_, err := s.Repo.GetByRole(ctx, in.UserID, role)
	switch {
	case err == nil:
		s.compensate(ctx, in.File.PublicID, "role_conflict")
		return Resume{}, roleConflict(role)
	case !errors.Is(err, ErrNotFound):
		s.compensate(ctx, in.File.PublicID, "lookup_failed")
		return Resume{}, fmt.Errorf("lookup resume role: %w", err)
	}

	now := s.now()
	res := Resume{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		JobRole:   role,
		FileName:  strings.TrimSpace(in.FileName),
		FileURL:   in.File.URL,
		PublicID:  in.File.PublicID,
		MimeType:  mimeFor(in.FileName, in.File.MimeType),
		SizeBytes: in.File.SizeBytes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		s.compensate(ctx, in.File.PublicID, "insert_failed")
		if errors.Is(err, ErrRoleTaken) {
			return Resume{}, roleConflict(role)
		}
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	return res, nil
}

// Update merges in into the stored resume. A replaced file is deleted after
// the row is updated; a new upload is deleted if the update fails.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Resume, error) {
	var newPublicID string
	if in.File != nil {
		newPublicID = in.File.PublicID
	}

	if _, err := uuid.Parse(in.ID); err != nil {
		s.compensate(ctx, newPublicID, "resume_missing")
		return Resume{}, apperr.NotFound("resume not found")
	}
	current, err := s.Repo.Get(ctx, in.UserID, in.ID)
	if err != nil {
		s.compensate(ctx, newPublicID, "resume_missing")
		if errors.Is(err, ErrNotFound) {
			return Resume{}, apperr.NotFound("resume not found")
		}
		return Resume{}, err
	}

	updated := current
	if in.JobRole != nil {
		role := NormalizeRole(*in.JobRole)
		if role == "" {
			s.compensate(ctx, newPublicID, "missing_role")
			return Resume{}, apperr.Validation("jobRole cannot be empty")
		}
		updated.JobRole = role
	}
	if in.File != nil {
		updated.FileURL = in.File.URL
		updated.PublicID = in.File.PublicID
		updated.SizeBytes = in.File.SizeBytes
		name := current.FileName
		if in.FileName != nil {
			name = *in.FileName
		}
		updated.MimeType = mimeFor(name, in.File.MimeType)
	}
	if in.FileName != nil && strings.TrimSpace(*in.FileName) != "" {
		updated.FileName = strings.TrimSpace(*in.FileName)
	}
	updated.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, updated); err != nil {
		s.compensate(ctx, newPublicID, "update_failed")
		switch {
		case errors.Is(err, ErrRoleTaken):
			return Resume{}, roleConflict(updated.JobRole)
		case errors.Is(err, ErrNotFound):
			return Resume{}, apperr.NotFound("resume not found")
		}
		return Resume{}, fmt.Errorf("update resume: %w", err)
	}

	if newPublicID != "" && current.PublicID != "" && current.PublicID != newPublicID {
		if _, err := s.Store.Delete(ctx, current.PublicID); err != nil {
			telemetry.Error("resume.old_file_delete_failed", map[string]any{
				"resume_id": current.ID,
				"public_id": current.PublicID,
				"error":     err,
			})
		}
	}
	return updated, nil
}

// Delete removes the stored file first and the row second. A storage failure
// leaves the row in place.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if res.PublicID != "" {
		if _, err := s.Store.Delete(ctx, res.PublicID); err != nil {
			return fmt.Errorf("delete resume file: %w", err)
		}
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("resume not found")
		}
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}

// GetFile opens the stored file for streaming. The caller closes the reader.
func (s *Service) GetFile(ctx context.Context, userID, id string) (Resume, io.ReadCloser, error) {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, nil, err
	}
	if res.PublicID == "" {
		return Resume{}, nil, apperr.NotFound("resume file not found")
	}
	rc, err := s.Store.Open(ctx, res.PublicID)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Resume{}, nil, apperr.NotFound("resume file not found")
		}
		return Resume{}, nil, fmt.Errorf("open resume file: %w", err)
	}
	return res, rc, nil
}

// Upload stores r in the user's folder and records it as the resume for jobRole.
func (s *Service) Upload(ctx context.Context, userID, jobRole, fileName string, r io.Reader) (Resume, error) {
	if NormalizeRole(jobRole) == "" {
		return Resume{}, apperr.Validation("jobRole is required")
	}
	obj, err := s.upload(ctx, userID, fileName, r)
	if err != nil {
		return Resume{}, err
	}
	return s.Create(ctx, CreateInput{UserID: userID, JobRole: jobRole, FileName: fileName, File: obj})
}

// Replace optionally uploads a new file and merges it and jobRole into the resume.
func (s *Service) Replace(ctx context.Context, userID, id string, jobRole *string, fileName string, r io.Reader) (Resume, error) {
	// Resolve ownership before uploading anything.
	if _, err := s.Get(ctx, userID, id); err != nil {
		return Resume{}, err
	}
	in := UpdateInput{UserID: userID, ID: id, JobRole: jobRole}
	if r != nil {
		obj, err := s.upload(ctx, userID, fileName, r)
		if err != nil {
			return Resume{}, err
		}
		in.File = &obj
		in.FileName = &fileName
	}
	return s.Update(ctx, in)
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Resume{}, apperr.NotFound("resume not found")
	}
	res, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Resume{}, apperr.NotFound("resume not found")
		}
		return Resume{}, err
	}
	return res, nil
}

// ForRole returns the caller's resume for role, if any.
func (s *Service) ForRole(ctx context.Context, userID, role string) (Resume, bool, error) {
	role = NormalizeRole(role)
	if role == "" {
		return Resume{}, false, nil
	}
	res, err := s.Repo.GetByRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Resume{}, false, nil
		}
		return Resume{}, false, err
	}
	return res, true, nil
}

func (s *Service) upload(ctx context.Context, userID, fileName string, r io.Reader) (object.Object, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return object.Object{}, apperr.Validation("invalid file name")
	}
	if _, ok := allowedMimeTypes[strings.ToLower(filepath.Ext(name))]; !ok {
		return object.Object{}, apperr.Validation("file must be a PDF, DOC, DOCX or TXT document")
	}
	folder := path.Join(s.Folder, util.HashUserKey(userID))
	obj, err := s.Store.Upload(ctx, folder, name, r)
	if err != nil {
		return object.Object{}, fmt.Errorf("upload resume: %w", err)
	}
	return obj, nil
}

// compensate removes an upload whose row was never written. Failures are logged only.
func (s *Service) compensate(ctx context.Context, publicID, reason string) {
	if publicID == "" {
		return
	}
	metrics.IncResumeCompensatingDeletes()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if _, err := s.Store.Delete(ctx, publicID); err != nil {
		telemetry.Error("resume.compensating_delete_failed", map[string]any{
			"public_id": publicID,
			"reason":    reason,
			"error":     err,
		})
		return
	}
	telemetry.Info("resume.compensating_delete", map[string]any{
		"public_id": publicID,
		"reason":    reason,
	})
}

func roleConflict(role string) error {
	return apperr.Conflict(fmt.Sprintf("resume for role %s already exists, replace it instead", role))
}

func mimeFor(fileName, detected string) string {
	if m, ok := allowedMimeTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return m
	}
	if detected != "" {
		return detected
	}
	return "application/octet-stream"
}
