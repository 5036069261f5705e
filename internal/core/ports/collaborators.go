package ports

import (
	"context"
	"io"
	"time"

	"github.com/legaltech/case-management/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords. Plaintext never leaves the
// service that received it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenPair is what a successful login, registration or refresh returns.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenIssuer signs and verifies session tokens carrying {userId, role}.
// Access and refresh tokens use independent secrets, so one never verifies
// as the other. Verification failures wrap domain.ErrUnauthenticated.
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (TokenPair, error)
	VerifyAccess(token string) (domain.Actor, error)
	VerifyRefresh(token string) (domain.Actor, error)
}

// FileMeta describes an upload handed to FileStorage.
type FileMeta struct {
	// Prefix groups related files, e.g. all documents of one case.
	Prefix   string
	FileName string
	MimeType string
	Size     int64
}

// FileStorage keeps document bytes outside the entity store. The locator it
// returns is opaque to callers.
type FileStorage interface {
	Store(ctx context.Context, r io.Reader, meta FileMeta) (string, error)
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
	Delete(ctx context.Context, locator string) error
}

// FileCleaner removes stored files in the background.
type FileCleaner interface {
	Schedule(locator string)
}

// RateDecision is the outcome of one rate-limit check. RetryAfter is
// measured on the limiter's own clock.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter counts requests per subject.
type RateLimiter interface {
	Allow(ctx context.Context, subject string) (RateDecision, error)
}
