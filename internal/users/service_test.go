package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/auth"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfileCreatesAndMerges(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	created, err := svc.UpdateProfile(ctx, "user-1", ProfileInput{
		Name:   strPtr("  Ada Lovelace "),
		Skills: &[]string{"Go", " ", "Postgres"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", created.Name)
	assert.Equal(t, []string{"Go", "Postgres"}, created.Skills)

	updated, err := svc.UpdateProfile(ctx, "user-1", ProfileInput{Bio: strPtr("Engineer")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name, "name must survive a partial update")
	assert.Equal(t, "Engineer", updated.Bio)
	assert.Equal(t, []string{"Go", "Postgres"}, updated.Skills)
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.UpdateProfile(context.Background(), "user-1", ProfileInput{Email: strPtr("nope")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.GetByID(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpsertFromAuthKeepsProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	_, err := svc.UpdateProfile(ctx, "google:1", ProfileInput{Bio: strPtr("Backend dev")})
	require.NoError(t, err)

	require.NoError(t, svc.UpsertFromAuth(ctx, auth.Identity{UserID: "google:1", Email: "ada@example.com", Name: "Ada"}))

	user, err := svc.GetByID(ctx, "google:1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "Backend dev", user.Bio)
}

func TestUpsertFromAuthRequiresEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	err := svc.UpsertFromAuth(context.Background(), auth.Identity{UserID: "google:1"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

type countingRepo struct {
	*MemoryRepo
	upserts int
}

func (r *countingRepo) UpsertIdentity(ctx context.Context, user User) error {
	r.upserts++
	return r.MemoryRepo.UpsertIdentity(ctx, user)
}

func TestEnsureCachesKnownUsers(t *testing.T) {
	repo := &countingRepo{MemoryRepo: NewMemoryRepo()}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Ensure(ctx, auth.Identity{UserID: "dev-user"}))
	require.NoError(t, svc.Ensure(ctx, auth.Identity{UserID: "dev-user"}))
	assert.Equal(t, 1, repo.upserts)

	_, err := repo.GetByID(ctx, "dev-user")
	require.NoError(t, err)

	err = svc.Ensure(ctx, auth.Identity{})
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}
