package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, d string) bool       { return d == "hashed:"+p }

type stubTokens struct {
	issued int
}

func (s *stubTokens) Issue(userID string, role domain.Role) (ports.TokenPair, error) {
	s.issued++
	return ports.TokenPair{
		AccessToken:  "access:" + userID + ":" + string(role),
		RefreshToken: "refresh:" + userID,
	}, nil
}

func (s *stubTokens) VerifyAccess(token string) (domain.Actor, error) {
	return domain.Actor{}, domain.ErrUnauthenticated
}

func (s *stubTokens) VerifyRefresh(token string) (domain.Actor, error) {
	id, ok := strings.CutPrefix(token, "refresh:")
	if !ok || id == "" {
		return domain.Actor{}, domain.New(domain.ErrUnauthenticated, "invalid token")
	}
	return domain.Actor{ID: id}, nil
}

type memStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	seq     int
	failPut error
}

func newMemStorage() *memStorage { return &memStorage{files: make(map[string][]byte)} }

func (m *memStorage) Store(_ context.Context, r io.Reader, meta ports.FileMeta) (string, error) {
	if m.failPut != nil {
		return "", m.failPut
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	loc := fmt.Sprintf("%s/%d_%s", meta.Prefix, m.seq, meta.FileName)
	m.files[loc] = b
	return loc, nil
}

func (m *memStorage) Open(_ context.Context, loc string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[loc]
	if !ok {
		return nil, domain.New(domain.ErrNotFound, "file not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(_ context.Context, loc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, loc)
	return nil
}

type recordingCleaner struct {
	scheduled []string
}

func (c *recordingCleaner) Schedule(loc string) { c.scheduled = append(c.scheduled, loc) }

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	store   *memory.Store
	files   *memStorage
	cleaner *recordingCleaner
	tokens  *stubTokens

	cases     *CaseService
	entries   *TimeEntryService
	documents *DocumentService
	users     *UserService
	auth      *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	store := memory.New(memory.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}))
	f := &fixture{
		store:   store,
		files:   newMemStorage(),
		cleaner: &recordingCleaner{},
		tokens:  &stubTokens{},
	}
	log := zerolog.Nop()
	f.cases = NewCaseService(store.Cases(), store.TimeEntries(), log)
	f.entries = NewTimeEntryService(store.Cases(), store.TimeEntries(), log)
	f.documents = NewDocumentService(store.Cases(), store.Documents(), f.files, f.cleaner, DocumentConfig{
		MaxBytes:         16,
		AllowedMimeTypes: []string{"application/pdf", "text/plain"},
	}, log)
	f.users = NewUserService(store.Users(), plainHasher{}, log)
	f.auth = NewAuthService(store.Users(), plainHasher{}, f.tokens, log)
	return f
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) domain.Actor {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), domain.User{
		FullName:     "Test " + email,
		Email:        email,
		PasswordHash: "hashed:Secret123",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return domain.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) newCase(t *testing.T, owner domain.Actor, client string) domain.Case {
	t.Helper()
	c, err := f.cases.Create(context.Background(), owner, ports.CreateCaseInput{
		ClientName:  client,
		ClientEmail: client + "@example.com",
	})
	if err != nil {
		t.Fatalf("create case %s: %v", client, err)
	}
	return c
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}
