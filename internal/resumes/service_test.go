package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/storage/object"
)

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	seq       int
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, folder, fileName string, r io.Reader) (object.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return object.Object{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("%s/%d_%s", folder, f.seq, fileName)
	f.objects[id] = data
	return object.Object{PublicID: id, URL: "https://files.test/" + id, SizeBytes: int64(len(data))}, nil
}

func (f *fakeStore) Delete(ctx context.Context, publicID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, ok := f.objects[publicID]
	delete(f.objects, publicID)
	return ok, nil
}

func (f *fakeStore) FetchBytes(ctx context.Context, publicID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[publicID]
	if !ok {
		return nil, object.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) Open(ctx context.Context, publicID string) (io.ReadCloser, error) {
	data, err := f.FetchBytes(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// racingRepo hides existing roles from the pre-check so the insert hits the unique constraint.
type racingRepo struct {
	*MemoryRepo
}

func (r racingRepo) GetByRole(ctx context.Context, userID, role string) (Resume, error) {
	return Resume{}, ErrNotFound
}

type failingUpdateRepo struct {
	*MemoryRepo
}

func (r failingUpdateRepo) Update(ctx context.Context, res Resume) error {
	return errors.New("db down")
}

func TestNormalizeRole(t *testing.T) {
	tests := map[string]string{
		"backend engineer":         "BACKEND_ENGINEER",
		"  Data \t Scientist  ":    "DATA_SCIENTIST",
		"SRE":                      "SRE",
		"   ":                      "",
		"full stack\ndeveloper ii": "FULL_STACK_DEVELOPER_II",
	}
	for in, want := range tests {
		if got := NormalizeRole(in); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUploadRejectsDuplicateRoleWithoutOrphan(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	ctx := context.Background()

	first, err := svc.Upload(ctx, "user-1", "Backend Engineer", "cv.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "BACKEND_ENGINEER", first.JobRole)
	assert.Equal(t, "application/pdf", first.MimeType)
	assert.True(t, strings.HasPrefix(first.PublicID, "resumes/"))

	_, err = svc.Upload(ctx, "user-1", "  backend   engineer ", "cv2.pdf", strings.NewReader("%PDF-1.5"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Contains(t, apperr.Message(err), "replace it instead")
	assert.Equal(t, 1, store.count())

	// another user may use the same role
	_, err = svc.Upload(ctx, "user-2", "backend engineer", "cv.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, 2, store.count())
}

func TestCreateInsertRaceCompensates(t *testing.T) {
	store := newFakeStore()
	mem := NewMemoryRepo()
	svc := NewService(racingRepo{mem}, store, "resumes")
	ctx := context.Background()

	_, err := svc.Upload(ctx, "user-1", "SRE", "a.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "user-1", "sre", "b.pdf", strings.NewReader("b"))
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)
	assert.Equal(t, 1, store.count())
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	_, err := svc.Upload(context.Background(), "user-1", "SRE", "photo.png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.Upload(context.Background(), "user-1", "  ", "cv.pdf", strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, 0, store.count())
}

func TestReplaceSwapsFile(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	ctx := context.Background()
	orig, err := svc.Upload(ctx, "user-1", "SRE", "old.pdf", strings.NewReader("old"))
	require.NoError(t, err)

	role := "platform engineer"
	updated, err := svc.Replace(ctx, "user-1", orig.ID, &role, "new.docx", strings.NewReader("new"))
	require.NoError(t, err)
	assert.Equal(t, "PLATFORM_ENGINEER", updated.JobRole)
	assert.Equal(t, "new.docx", updated.FileName)
	assert.NotEqual(t, orig.PublicID, updated.PublicID)
	assert.Equal(t, 1, store.count())

	_, err = store.FetchBytes(ctx, orig.PublicID)
	assert.ErrorIs(t, err, object.ErrNotFound)

	_, rc, err := svc.GetFile(ctx, "user-1", orig.ID)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "new", string(data))
}

func TestReplaceRoleOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	ctx := context.Background()
	a, err := svc.Upload(ctx, "user-1", "SRE", "a.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "user-1", "DEVOPS", "b.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	role := "devops"
	_, err = svc.Replace(ctx, "user-1", a.ID, &role, "", nil)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 2, store.count())

	got, err := svc.Get(ctx, "user-1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "SRE", got.JobRole)
}

func TestUpdateFailureDeletesNewUpload(t *testing.T) {
	store := newFakeStore()
	mem := NewMemoryRepo()
	seed := NewService(mem, store, "resumes")
	ctx := context.Background()
	orig, err := seed.Upload(ctx, "user-1", "SRE", "old.pdf", strings.NewReader("old"))
	require.NoError(t, err)

	svc := NewService(failingUpdateRepo{mem}, store, "resumes")
	_, err = svc.Replace(ctx, "user-1", orig.ID, nil, "new.pdf", strings.NewReader("new"))
	require.Error(t, err)
	assert.Equal(t, 1, store.count())
	_, err = store.FetchBytes(ctx, orig.PublicID)
	assert.NoError(t, err)
}

func TestReplaceMissingResumeDeletesUpload(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	orig, err := svc.Upload(context.Background(), "user-1", "SRE", "a.pdf", strings.NewReader("a"))
	require.NoError(t, err)

	_, err = svc.Replace(context.Background(), "user-2", orig.ID, nil, "b.pdf", strings.NewReader("b"))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 1, store.count())
	assert.Equal(t, 1, store.seq, "nothing is uploaded for a resume the caller does not own")
}

func TestDeleteKeepsRowWhenStorageFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	ctx := context.Background()
	res, err := svc.Upload(ctx, "user-1", "SRE", "a.pdf", strings.NewReader("a"))
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(ctx, "user-2", res.ID), apperr.ErrNotFound))

	store.deleteErr = errors.New("storage offline")
	require.Error(t, svc.Delete(ctx, "user-1", res.ID))
	_, err = svc.Get(ctx, "user-1", res.ID)
	require.NoError(t, err)

	store.deleteErr = nil
	require.NoError(t, svc.Delete(ctx, "user-1", res.ID))
	_, err = svc.Get(ctx, "user-1", res.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 0, store.count())
}

func TestForRoleAndIdempotentGet(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store, "resumes")
	ctx := context.Background()
	res, err := svc.Upload(ctx, "user-1", "Data Engineer", "a.pdf", strings.NewReader("a"))
	require.NoError(t, err)

	found, ok, err := svc.ForRole(ctx, "user-1", "data engineer")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.ID, found.ID)

	_, ok, err = svc.ForRole(ctx, "user-2", "data engineer")
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := svc.Get(ctx, "user-1", res.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, "user-1", res.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
