package ports

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

// CaseGuard inspects the current state of a case while the store holds the
// locks for the surrounding write. A non-nil error aborts the write and is
// returned unchanged.
type CaseGuard func(c domain.Case) error

// ChildGuard is CaseGuard for rows owned by a case. It receives the row as
// stored and its parent case.
type ChildGuard[T any] func(row T, parent domain.Case) error

// UserRepository is the Users collection.
type UserRepository interface {
	// Create fails with domain.ErrEmailTaken when the email is in use.
	Create(ctx context.Context, u domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string, inc domain.Include) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.User, error)
	// Count ignores the pagination bounds of spec.
	Count(ctx context.Context, spec query.Spec) (int, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)
	// Delete fails with domain.ErrConstraintViolation while any case, time
	// entry or document references the user.
	Delete(ctx context.Context, id string) (domain.User, error)
}

// CaseRepository is the Cases collection.
type CaseRepository interface {
	// Create requires LawyerID to reference a user with role LAWYER.
	Create(ctx context.Context, c domain.Case) (domain.Case, error)
	FindByID(ctx context.Context, id string, inc domain.Include) (domain.Case, error)
	FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.Case, error)
	Count(ctx context.Context, spec query.Spec) (int, error)
	Update(ctx context.Context, id string, patch domain.CasePatch, guard CaseGuard) (domain.Case, error)
	// Delete fails with domain.ErrConstraintViolation while any time entry
	// or document references the case.
	Delete(ctx context.Context, id string, guard CaseGuard) (domain.Case, error)
}

// TimeEntryRepository is the TimeEntries collection. Create runs guard
// against the parent case before inserting. Update runs guard against the
// current parent and, when the patch moves the entry, against the new one.
type TimeEntryRepository interface {
	Create(ctx context.Context, e domain.TimeEntry, guard CaseGuard) (domain.TimeEntry, error)
	FindByID(ctx context.Context, id string, inc domain.Include) (domain.TimeEntry, error)
	FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.TimeEntry, error)
	Count(ctx context.Context, spec query.Spec) (int, error)
	Update(ctx context.Context, id string, patch domain.TimeEntryPatch, guard ChildGuard[domain.TimeEntry]) (domain.TimeEntry, error)
	Delete(ctx context.Context, id string, guard ChildGuard[domain.TimeEntry]) (domain.TimeEntry, error)
}

// DocumentRepository is the Documents collection. Guards behave as for
// TimeEntryRepository.
type DocumentRepository interface {
	Create(ctx context.Context, d domain.Document, guard CaseGuard) (domain.Document, error)
	FindByID(ctx context.Context, id string, inc domain.Include) (domain.Document, error)
	FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.Document, error)
	Count(ctx context.Context, spec query.Spec) (int, error)
	Update(ctx context.Context, id string, patch domain.DocumentPatch, guard ChildGuard[domain.Document]) (domain.Document, error)
	Delete(ctx context.Context, id string, guard ChildGuard[domain.Document]) (domain.Document, error)
}
