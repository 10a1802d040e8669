package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/auth"
)

type Service struct {
	Repo Repo

	known sync.Map
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth records the identity returned by an OAuth login.
func (s *Service) UpsertFromAuth(ctx context.Context, id auth.Identity) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(id.UserID) == "" || strings.TrimSpace(id.Email) == "" {
		return apperr.Validation("user id and email are required")
	}
	if err := s.Repo.UpsertIdentity(ctx, User{
		ID:         id.UserID,
		Email:      strings.TrimSpace(id.Email),
		Name:       strings.TrimSpace(id.Name),
		PictureURL: id.Picture,
	}); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	s.known.Store(id.UserID, struct{}{})
	return nil
}

// Ensure makes sure a row exists for the caller so owned rows can reference it.
// Known ids are cached for the life of the process.
func (s *Service) Ensure(ctx context.Context, id auth.Identity) error {
	if strings.TrimSpace(id.UserID) == "" {
		return apperr.New(apperr.ErrUnauthorized, "missing identity")
	}
	if _, ok := s.known.Load(id.UserID); ok {
		return nil
	}
	if err := s.Repo.UpsertIdentity(ctx, User{
		ID:         id.UserID,
		Email:      id.Email,
		Name:       id.Name,
		PictureURL: id.Picture,
	}); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	s.known.Store(id.UserID, struct{}{})
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.Validation("user id is required")
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, err
	}
	return user, nil
}

// UpdateProfile merges the provided fields into the stored profile, creating it when absent.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.Validation("user id is required")
	}
	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		return User{}, apperr.Validation("email must be a valid address")
	}

	current, err := s.Repo.GetByID(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		current = User{ID: userID}
	case err != nil:
		return User{}, err
	}

	updated := in.apply(current)
	saved, err := s.Repo.Save(ctx, updated)
	if err != nil {
		return User{}, fmt.Errorf("save profile: %w", err)
	}
	s.known.Store(userID, struct{}{})
	return saved, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
