package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"jobtracker-backend/internal/shared/storage/object"
)

func TestUploadFetchDelete(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080/files/")
	ctx := context.Background()

	obj, err := store.Upload(ctx, "resumes/abc", "My CV.pdf", strings.NewReader("%PDF-1.4 hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(obj.PublicID, "resumes/abc/") || !strings.HasSuffix(obj.PublicID, "_My CV.pdf") {
		t.Fatalf("unexpected public id %q", obj.PublicID)
	}
	if obj.URL != "http://localhost:8080/files/"+obj.PublicID {
		t.Fatalf("unexpected url %q", obj.URL)
	}
	if obj.SizeBytes != int64(len("%PDF-1.4 hello")) {
		t.Fatalf("unexpected size %d", obj.SizeBytes)
	}
	if obj.MimeType != "application/pdf" {
		t.Fatalf("unexpected mime %q", obj.MimeType)
	}

	data, err := store.FetchBytes(ctx, obj.PublicID)
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if !bytes.Equal(data, []byte("%PDF-1.4 hello")) {
		t.Fatalf("unexpected bytes %q", data)
	}

	rc, err := store.Open(ctx, obj.PublicID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	streamed, _ := io.ReadAll(rc)
	rc.Close()
	if string(streamed) != "%PDF-1.4 hello" {
		t.Fatalf("unexpected stream %q", streamed)
	}

	deleted, err := store.Delete(ctx, obj.PublicID)
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v", deleted, err)
	}
	deleted, err = store.Delete(ctx, obj.PublicID)
	if err != nil || deleted {
		t.Fatalf("second Delete = %v, %v", deleted, err)
	}
	if _, err := store.Open(ctx, obj.PublicID); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir(), "")
	ctx := context.Background()

	if _, err := store.Upload(ctx, "resumes", "../evil.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal file name to be rejected")
	}
	if _, err := store.Open(ctx, "../../etc/passwd"); err == nil {
		t.Fatalf("expected traversal public id to be rejected")
	}
}
