package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

func TestObjectKey(t *testing.T) {
	key := objectKey(ports.FileMeta{Prefix: "cases/../c1", FileName: "../../etc/my contract.pdf"})
	if !strings.HasPrefix(key, "cases/c1/") {
		t.Fatalf("unexpected prefix in %q", key)
	}
	if !strings.HasSuffix(key, "_my_contract.pdf") {
		t.Fatalf("unexpected name in %q", key)
	}
	if !validKey(key) {
		t.Fatalf("generated key %q must be valid", key)
	}
	if objectKey(ports.FileMeta{FileName: "a.txt"}) == objectKey(ports.FileMeta{FileName: "a.txt"}) {
		t.Fatal("keys must be unique")
	}
}

func TestValidKey(t *testing.T) {
	for _, k := range []string{"", "/etc/passwd", "../x", "a/../../b", "a//b", `a\b`} {
		if validKey(k) {
			t.Fatalf("key %q must be rejected", k)
		}
	}
	if !validKey("cases/c1/x.pdf") {
		t.Fatal("plain key must be accepted")
	}
}

// ---------------------------------------------------------------------------
// Local driver
// ---------------------------------------------------------------------------

func TestLocalStorage_StoreOpenDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	loc, err := s.Store(ctx, strings.NewReader("hello"), ports.FileMeta{Prefix: "cases/c1", FileName: "a.txt", MimeType: "text/plain", Size: 5})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(loc))); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	rc, err := s.Open(ctx, loc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", data)
	}

	if err := s.Delete(ctx, loc); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, loc); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := s.Open(ctx, loc); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStorage_OpenRejectsTraversal(t *testing.T) {
	s, _ := NewLocalStorage(t.TempDir())
	if _, err := s.Open(context.Background(), "../secret"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestLocalStorage_StoreCleansUpOnWriteError(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewLocalStorage(dir)
	if _, err := s.Store(context.Background(), failingReader{}, ports.FileMeta{Prefix: "p", FileName: "a.txt"}); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "p"))
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, got %d", len(entries))
	}
}

// ---------------------------------------------------------------------------
// S3 driver against an in-memory object API
// ---------------------------------------------------------------------------

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_StoreOpenDelete(t *testing.T) {
	fake := newFakeObjects()
	s := &S3Storage{client: fake, bucket: "docs"}
	ctx := context.Background()

	loc, err := s.Store(ctx, strings.NewReader("%PDF"), ports.FileMeta{Prefix: "cases/c1", FileName: "a.pdf", MimeType: "application/pdf", Size: 4})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if fake.types[loc] != "application/pdf" {
		t.Fatalf("expected content type to be forwarded, got %q", fake.types[loc])
	}

	rc, err := s.Open(ctx, loc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF" {
		t.Fatalf("unexpected body %q", data)
	}

	if err := s.Delete(ctx, loc); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Open(ctx, loc); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), Config{Driver: "ftp"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := New(context.Background(), Config{Driver: DriverS3}); err == nil {
		t.Fatal("expected error for s3 without bucket")
	}
}
