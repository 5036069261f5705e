package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

// AuthService implements registration, login and token refresh.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

var _ ports.AuthService = (*AuthService)(nil)

// Register creates a LAWYER account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (ports.AuthResult, error) {
	u, err := newUser(s.hasher, in.FullName, in.Email, in.Password, domain.RoleLawyer)
	if err != nil {
		return ports.AuthResult{}, err
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return ports.AuthResult{}, err
	}
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return s.session(ctx, created)
}

// Login fails with domain.ErrUserNotFound for an unknown email and with
// domain.ErrInvalidCredentials for a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (ports.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ports.AuthResult{}, domain.ErrInvalidCredentials
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return ports.AuthResult{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		s.logger.Warn().Str("user_id", u.ID).Msg("login rejected")
		return ports.AuthResult{}, domain.ErrInvalidCredentials
	}
	return s.session(ctx, u)
}

// Refresh exchanges a refresh token for a new pair. The role is re-read
// from the store so a changed role takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (ports.AuthResult, error) {
	claimed, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return ports.AuthResult{}, err
	}
	u, err := s.users.FindByID(ctx, claimed.ID, domain.Include{})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ports.AuthResult{}, domain.New(domain.ErrUnauthenticated, "user no longer exists")
		}
		return ports.AuthResult{}, err
	}
	return s.session(ctx, u)
}

// ValidateUser resolves a token subject to the stored account and returns
// the actor with its current role.
func (s *AuthService) ValidateUser(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	u, err := s.users.FindByID(ctx, actor.ID, domain.Include{})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, domain.New(domain.ErrUnauthenticated, "user no longer exists")
		}
		return domain.Actor{}, err
	}
	return domain.Actor{ID: u.ID, Role: u.Role}, nil
}

func (s *AuthService) session(ctx context.Context, u domain.User) (ports.AuthResult, error) {
	pair, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("issuing tokens: %w", err)
	}
	full, err := s.users.FindByID(ctx, u.ID, domain.UserRelations)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", u.ID).Msg("could not load user relations")
		full = u
	}
	return ports.AuthResult{Tokens: pair, User: full}, nil
}
