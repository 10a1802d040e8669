package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/paging"
)

func strPtr(s string) *string { return &s }

func newTestService(start time.Time) *Service {
	svc := NewService(NewMemoryRepo())
	clock := start
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	job, err := svc.Create(context.Background(), "user-1", Input{
		CompanyName: strPtr("  Acme "),
		JobTitle:    strPtr("Backend Engineer"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Acme", job.CompanyName)
	assert.Equal(t, StatusSaved, job.Status)
	assert.Equal(t, ApplyNotApplied, job.ApplyStatus)
	assert.Equal(t, ResponsePending, job.ResponseStatus)
	assert.Equal(t, EmailNotSent, job.EmailSendStatus)
	assert.Nil(t, job.ApplyDate)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(time.Now())
	bad := Status("LOST")
	tests := []struct {
		name string
		in   Input
	}{
		{name: "missing company", in: Input{JobTitle: strPtr("x")}},
		{name: "missing title", in: Input{CompanyName: strPtr("x")}},
		{name: "bad status", in: Input{CompanyName: strPtr("x"), JobTitle: strPtr("y"), Status: &bad}},
		{name: "bad email", in: Input{CompanyName: strPtr("x"), JobTitle: strPtr("y"), CompanyEmail: strPtr("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tt.in)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
}

func TestListPagination(t *testing.T) {
	svc := newTestService(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	created := make([]Job, 0, 12)
	for i := 1; i <= 12; i++ {
		job, err := svc.Create(ctx, "user-1", Input{
			CompanyName: strPtr(fmt.Sprintf("Company %02d", i)),
			JobTitle:    strPtr("Engineer"),
		})
		require.NoError(t, err)
		created = append(created, job)
	}

	items, meta, err := svc.List(ctx, "user-1", Filter{Page: paging.Params{Page: 2, Limit: 5}})
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, paging.Meta{Page: 2, Limit: 5, Total: 12, TotalPages: 3}, meta)

	// newest first: page two holds the 6th..10th newest
	for i, job := range items {
		assert.Equal(t, created[len(created)-6-i].ID, job.ID)
	}

	items, meta, err = svc.List(ctx, "user-1", Filter{Page: paging.Params{Page: 3, Limit: 5}})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	applied := StatusApplied
	_, err := svc.Create(ctx, "user-1", Input{CompanyName: strPtr("Globex"), JobTitle: strPtr("SRE"), Status: &applied})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", Input{CompanyName: strPtr("Initech"), JobTitle: strPtr("Go Developer")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", Input{CompanyName: strPtr("Globex"), JobTitle: strPtr("SRE")})
	require.NoError(t, err)

	items, meta, err := svc.List(ctx, "user-1", Filter{Search: "glob"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, meta.Total)

	items, _, err = svc.List(ctx, "user-1", Filter{Search: "developer"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Initech", items[0].CompanyName)

	items, _, err = svc.List(ctx, "user-1", Filter{Status: StatusApplied})
	require.NoError(t, err)
	require.Len(t, items, 1)

	to, err := paging.ParseDate("2025-02-28", true)
	require.NoError(t, err)
	items, _, err = svc.List(ctx, "user-1", Filter{To: to})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, _, err = svc.List(ctx, "user-1", Filter{Status: "BOGUS"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	svc := newTestService(time.Now())
	ctx := context.Background()
	job, err := svc.Create(ctx, "user-1", Input{CompanyName: strPtr("Acme"), JobTitle: strPtr("Dev")})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-2", job.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Update(ctx, "user-2", job.ID, Input{Notes: strPtr("mine now")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = svc.Delete(ctx, "user-2", job.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Get(ctx, "user-1", "not-a-uuid")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	still, err := svc.Get(ctx, "user-1", job.ID)
	require.NoError(t, err)
	assert.Empty(t, still.Notes)
}

func TestUpdateIsPartial(t *testing.T) {
	svc := newTestService(time.Now())
	ctx := context.Background()
	job, err := svc.Create(ctx, "user-1", Input{
		CompanyName:  strPtr("Acme"),
		JobTitle:     strPtr("Dev"),
		CompanyEmail: strPtr("jobs@acme.test"),
	})
	require.NoError(t, err)

	interview := ResponseInterview
	updated, err := svc.Update(ctx, "user-1", job.ID, Input{ResponseStatus: &interview})
	require.NoError(t, err)
	assert.Equal(t, ResponseInterview, updated.ResponseStatus)
	assert.Equal(t, "jobs@acme.test", updated.CompanyEmail)
	assert.Equal(t, "Acme", updated.CompanyName)
	assert.True(t, updated.UpdatedAt.After(job.UpdatedAt))

	_, err = svc.Update(ctx, "user-1", job.ID, Input{JobTitle: strPtr("  ")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestMarkEmailSent(t *testing.T) {
	svc := newTestService(time.Now())
	ctx := context.Background()
	job, err := svc.Create(ctx, "user-1", Input{CompanyName: strPtr("Acme"), JobTitle: strPtr("Dev")})
	require.NoError(t, err)

	require.NoError(t, svc.MarkEmailSent(ctx, "user-1", job.ID, false))
	got, err := svc.Get(ctx, "user-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, EmailSent, got.EmailSendStatus)
	assert.Equal(t, ApplyNotApplied, got.ApplyStatus)
	assert.Nil(t, got.ApplyDate)

	require.NoError(t, svc.MarkEmailSent(ctx, "user-1", job.ID, true))
	got, err = svc.Get(ctx, "user-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, ApplyApplied, got.ApplyStatus)
	assert.Equal(t, StatusApplied, got.Status)
	require.NotNil(t, got.ApplyDate)

	err = svc.MarkEmailSent(ctx, "user-2", job.ID, true)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStatsAndSummaries(t *testing.T) {
	svc := newTestService(time.Now())
	ctx := context.Background()
	offered := StatusOffered
	a, err := svc.Create(ctx, "user-1", Input{CompanyName: strPtr("A"), JobTitle: strPtr("One")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", Input{CompanyName: strPtr("B"), JobTitle: strPtr("Two"), Status: &offered})
	require.NoError(t, err)
	other, err := svc.Create(ctx, "user-2", Input{CompanyName: strPtr("C"), JobTitle: strPtr("Three")})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[StatusOffered])
	assert.Equal(t, 0, stats.ByStatus[StatusArchived])
	assert.Equal(t, 2, stats.ByApplyStatus[ApplyNotApplied])

	sums, err := svc.Summaries(ctx, "user-1", []string{a.ID, a.ID, other.ID, "junk"})
	require.NoError(t, err)
	assert.Len(t, sums, 1)
	assert.Equal(t, Summary{ID: a.ID, CompanyName: "A", JobTitle: "One"}, sums[a.ID])
}
