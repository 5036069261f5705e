package ports

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

type CreateUserInput struct {
	FullName string
	Email    string
	Password string
}

type UpdateUserInput struct {
	FullName *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// UserService is the account administration surface. Lawyers may only read
// their own account.
type UserService interface {
	CreateAdmin(ctx context.Context, actor domain.Actor, in CreateUserInput) (domain.User, error)
	CreateLawyer(ctx context.Context, actor domain.Actor, in CreateUserInput) (domain.User, error)
	List(ctx context.Context, actor domain.Actor, spec query.Spec) (Page[domain.User], error)
	Get(ctx context.Context, actor domain.Actor, id string) (domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateUserInput) (domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) (domain.User, error)
}
