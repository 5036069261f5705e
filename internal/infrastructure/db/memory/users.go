package memory

import (
	"context"
	"strings"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

// UserRepository is the Users collection of a Store.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if err := begin(ctx); err != nil {
		return domain.User{}, err
	}
	if !u.Role.Valid() {
		return domain.User{}, domain.Invalidf("invalid role %q", u.Role)
	}

	unlock := r.s.acquire(usersTable, 0)
	defer unlock()

	if r.s.users.countRefs("email", u.Email) > 0 {
		return domain.User{}, domain.ErrEmailTaken
	}
	u = cloneUser(u)
	u.ID = r.s.newID()
	u.CreatedAt = r.s.now()
	r.s.users.insert(u.ID, u)
	return cloneUser(u), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string, inc domain.Include) (domain.User, error) {
	if err := begin(ctx); err != nil {
		return domain.User{}, err
	}
	unlock := r.s.acquire(0, usersTable|userLocks(inc))
	defer unlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.s.withUserRelations(u, inc), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := begin(ctx); err != nil {
		return domain.User{}, err
	}
	unlock := r.s.acquire(0, usersTable)
	defer unlock()

	matches := r.s.users.refs("email", email)
	if len(matches) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return matches[0], nil
}

func (r *UserRepository) FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.User, error) {
	if err := begin(ctx); err != nil {
		return nil, err
	}
	unlock := r.s.acquire(0, usersTable|userLocks(inc))
	defer unlock()

	rows := r.s.users.find(spec)
	for i := range rows {
		rows[i] = r.s.withUserRelations(rows[i], inc)
	}
	return rows, nil
}

func (r *UserRepository) Count(ctx context.Context, spec query.Spec) (int, error) {
	if err := begin(ctx); err != nil {
		return 0, err
	}
	unlock := r.s.acquire(0, usersTable)
	defer unlock()
	return r.s.users.count(spec), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	if err := begin(ctx); err != nil {
		return domain.User{}, err
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return domain.User{}, domain.Invalidf("invalid role %q", *patch.Role)
	}

	unlock := r.s.acquire(usersTable, 0)
	defer unlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if r.s.users.countRefs("email", *patch.Email) > 0 {
			return domain.User{}, domain.ErrEmailTaken
		}
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	r.s.users.replace(id, u)
	return cloneUser(u), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (domain.User, error) {
	if err := begin(ctx); err != nil {
		return domain.User{}, err
	}
	unlock := r.s.acquire(usersTable, casesTable|entriesTable|documentsTable)
	defer unlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	var refs []string
	if r.s.cases.countRefs("lawyerId", id) > 0 {
		refs = append(refs, "cases")
	}
	if r.s.entries.countRefs("lawyerId", id) > 0 {
		refs = append(refs, "time entries")
	}
	if r.s.documents.countRefs("lawyerId", id) > 0 {
		refs = append(refs, "documents")
	}
	if len(refs) > 0 {
		return domain.User{}, domain.Errorf(domain.ErrConstraintViolation,
			"user is still referenced by %s", strings.Join(refs, ", "))
	}
	r.s.users.remove(id)
	return u, nil
}
