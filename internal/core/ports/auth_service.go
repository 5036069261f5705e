package ports

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
)

// RegisterInput is the self-service sign-up payload. Registered users are
// always lawyers.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// AuthResult is returned by Register, Login and Refresh.
type AuthResult struct {
	Tokens TokenPair
	User   domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthResult, error)
	// ValidateUser resolves a token subject to a live account. Tokens of
	// deleted users stop working immediately.
	ValidateUser(ctx context.Context, actor domain.Actor) (domain.Actor, error)
}
