package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/policy"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, logger: logger}
}

var _ ports.UserService = (*UserService)(nil)

func (s *UserService) CreateAdmin(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (domain.User, error) {
	return s.create(ctx, actor, in, domain.RoleAdmin)
}

func (s *UserService) CreateLawyer(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (domain.User, error) {
	return s.create(ctx, actor, in, domain.RoleLawyer)
}

func (s *UserService) create(ctx context.Context, actor domain.Actor, in ports.CreateUserInput, role domain.Role) (domain.User, error) {
	if err := policy.Check(actor, policy.Create, policy.Users); err != nil {
		return domain.User{}, err
	}
	u, err := newUser(s.hasher, in.FullName, in.Email, in.Password, role)
	if err != nil {
		return domain.User{}, err
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) List(ctx context.Context, actor domain.Actor, spec query.Spec) (ports.Page[domain.User], error) {
	if err := policy.Check(actor, policy.Read, policy.Users); err != nil {
		return ports.Page[domain.User]{}, err
	}
	return page(ctx, spec.WithDefaultOrder("createdAt", query.Desc), domain.UserRelations, s.users.FindMany, s.users.Count)
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (domain.User, error) {
	u, err := s.users.FindByID(ctx, id, domain.UserRelations)
	if err != nil {
		return domain.User{}, err
	}
	if err := policy.Check(actor, policy.Read, policy.ForUser(u)); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Update replaces the provided fields. A new password is hashed before it
// reaches the store.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateUserInput) (domain.User, error) {
	if err := policy.Check(actor, policy.Update, policy.ForUser(domain.User{ID: id})); err != nil {
		return domain.User{}, err
	}
	if err := optional("fullName", in.FullName); err != nil {
		return domain.User{}, err
	}
	patch := domain.UserPatch{FullName: in.FullName, Role: in.Role}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := required("email", email); err != nil {
			return domain.User{}, err
		}
		patch.Email = &email
	}
	if in.Password != nil {
		if err := required("password", *in.Password); err != nil {
			return domain.User{}, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hashing password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// Delete removes an account that no case, time entry or document refers to.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) (domain.User, error) {
	if err := policy.Check(actor, policy.Delete, policy.ForUser(domain.User{ID: id})); err != nil {
		return domain.User{}, err
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info().Str("user_id", deleted.ID).Msg("user deleted")
	return deleted, nil
}

// newUser validates account fields and hashes the password.
func newUser(hasher ports.PasswordHasher, fullName, email, password string, role domain.Role) (domain.User, error) {
	email = strings.TrimSpace(email)
	if err := required("fullName", fullName); err != nil {
		return domain.User{}, err
	}
	if err := required("email", email); err != nil {
		return domain.User{}, err
	}
	if err := required("password", password); err != nil {
		return domain.User{}, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}
	return domain.User{FullName: fullName, Email: email, PasswordHash: hash, Role: role}, nil
}
