package security

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/legaltech/case-management/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	digest, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest == "s3cret!" {
		t.Fatal("digest must not equal plaintext")
	}
	if !h.Verify("s3cret!", digest) {
		t.Fatal("expected password to verify")
	}
	if h.Verify("wrong", digest) {
		t.Fatal("wrong password must not verify")
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if h := NewBcryptHasher(99); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}

func newIssuer() *JWTIssuer {
	return NewJWTIssuer(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestJWTIssuer_IssueAndVerify(t *testing.T) {
	iss := newIssuer()
	pair, err := iss.Issue("user-1", domain.RoleLawyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	actor, err := iss.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if actor.ID != "user-1" || actor.Role != domain.RoleLawyer {
		t.Fatalf("unexpected actor %+v", actor)
	}

	actor, err = iss.VerifyRefresh(pair.RefreshToken)
	if err != nil || actor.ID != "user-1" {
		t.Fatalf("verify refresh: %+v %v", actor, err)
	}
	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Fatal("refresh token must outlive access token")
	}
}

func TestJWTIssuer_TokensAreNotInterchangeable(t *testing.T) {
	iss := newIssuer()
	pair, _ := iss.Issue("user-1", domain.RoleAdmin)

	if _, err := iss.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
	if _, err := iss.VerifyRefresh(pair.AccessToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
}

func TestJWTIssuer_SameSecretStillChecksKind(t *testing.T) {
	iss := NewJWTIssuer(TokenConfig{AccessSecret: "same", RefreshSecret: "same"})
	pair, _ := iss.Issue("user-1", domain.RoleLawyer)
	if _, err := iss.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	iss := newIssuer()
	issued := time.Now().Add(-2 * time.Minute)
	iss.nowFn = func() time.Time { return issued }
	pair, _ := iss.Issue("user-1", domain.RoleLawyer)

	iss.nowFn = time.Now
	if _, err := iss.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
	if _, err := iss.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("refresh token should still be valid: %v", err)
	}
}

func TestJWTIssuer_RejectsGarbage(t *testing.T) {
	iss := newIssuer()
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := iss.VerifyAccess(tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", tok, err)
		}
	}
	other := NewJWTIssuer(TokenConfig{AccessSecret: "different", RefreshSecret: "x"})
	pair, _ := other.Issue("user-1", domain.RoleLawyer)
	if _, err := iss.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("foreign signature accepted: %v", err)
	}
}
