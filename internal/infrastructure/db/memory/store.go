// Package memory is the in-process entity store. It holds the Users, Cases,
// TimeEntries and Documents collections, each behind its own RWMutex, and
// enforces email uniqueness and referential integrity on every write.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

var (
	_ ports.UserRepository      = (*UserRepository)(nil)
	_ ports.CaseRepository      = (*CaseRepository)(nil)
	_ ports.TimeEntryRepository = (*TimeEntryRepository)(nil)
	_ ports.DocumentRepository  = (*DocumentRepository)(nil)
)

// Store owns the four collections. Use the repository accessors to read and
// write them.
type Store struct {
	users     *table[domain.User]
	cases     *table[domain.Case]
	entries   *table[domain.TimeEntry]
	documents *table[domain.Document]

	nowFn func() time.Time
	idFn  func() string
}

// Option customises a Store.
type Option func(*Store)

// WithClock sets the source of createdAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

// WithIDGenerator sets the identifier generator. Generated ids must be
// unique for the lifetime of the store.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.idFn = gen }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		users: newTable(cloneUser).
			indexOn("email", func(u domain.User) string { return u.Email }),
		cases: newTable(cloneCase).
			indexOn("lawyerId", func(c domain.Case) string { return c.LawyerID }),
		entries: newTable(cloneTimeEntry).
			indexOn("caseId", func(e domain.TimeEntry) string { return e.CaseID }).
			indexOn("lawyerId", func(e domain.TimeEntry) string { return e.LawyerID }),
		documents: newTable(cloneDocument).
			indexOn("caseId", func(d domain.Document) string { return d.CaseID }).
			indexOn("lawyerId", func(d domain.Document) string { return d.LawyerID }),
		nowFn: time.Now,
		idFn:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() *UserRepository            { return &UserRepository{s: s} }
func (s *Store) Cases() *CaseRepository            { return &CaseRepository{s: s} }
func (s *Store) TimeEntries() *TimeEntryRepository { return &TimeEntryRepository{s: s} }
func (s *Store) Documents() *DocumentRepository    { return &DocumentRepository{s: s} }

func (s *Store) now() time.Time { return s.nowFn().UTC() }

func (s *Store) newID() string { return s.idFn() }

// collection is a bit set over the four tables.
type collection uint8

const (
	usersTable collection = 1 << iota
	casesTable
	entriesTable
	documentsTable
)

// acquire locks the tables in write exclusively and those in read shared,
// always in the order users, cases, entries, documents, and returns the
// matching unlock. A table present in both sets is write-locked.
func (s *Store) acquire(write, read collection) func() {
	mus := [...]*sync.RWMutex{&s.users.mu, &s.cases.mu, &s.entries.mu, &s.documents.mu}
	unlocks := make([]func(), 0, len(mus))
	for i, mu := range mus {
		c := collection(1 << i)
		switch {
		case write&c != 0:
			mu.Lock()
			unlocks = append(unlocks, mu.Unlock)
		case read&c != 0:
			mu.RLock()
			unlocks = append(unlocks, mu.RUnlock)
		}
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// begin rejects work for an already cancelled context. Once a write has
// taken its locks it always runs to completion.
func begin(ctx context.Context) error {
	return ctx.Err()
}

// Materialization. Callers hold read locks on every table the include
// touches. Related rows never carry relations of their own.

func userLocks(inc domain.Include) collection {
	var c collection
	if inc.Cases {
		c |= casesTable
	}
	if inc.TimeEntries {
		c |= entriesTable
	}
	if inc.Documents {
		c |= documentsTable
	}
	return c
}

func caseLocks(inc domain.Include) collection {
	var c collection
	if inc.Lawyer {
		c |= usersTable
	}
	if inc.TimeEntries {
		c |= entriesTable
	}
	if inc.Documents {
		c |= documentsTable
	}
	return c
}

func childLocks(inc domain.Include) collection {
	var c collection
	if inc.Case {
		c |= casesTable
	}
	if inc.Lawyer {
		c |= usersTable
	}
	return c
}

func (s *Store) withUserRelations(u domain.User, inc domain.Include) domain.User {
	if inc.Cases {
		u.Cases = s.cases.refs("lawyerId", u.ID)
	}
	if inc.TimeEntries {
		u.TimeEntries = s.entries.refs("lawyerId", u.ID)
	}
	if inc.Documents {
		u.Documents = s.documents.refs("lawyerId", u.ID)
	}
	return u
}

func (s *Store) withCaseRelations(c domain.Case, inc domain.Include) domain.Case {
	if inc.Lawyer {
		if u, ok := s.users.get(c.LawyerID); ok {
			c.Lawyer = &u
		}
	}
	if inc.TimeEntries {
		c.TimeEntries = s.entries.refs("caseId", c.ID)
	}
	if inc.Documents {
		c.Documents = s.documents.refs("caseId", c.ID)
	}
	return c
}

func (s *Store) parentAndLawyer(caseID, lawyerID string, inc domain.Include) (*domain.Case, *domain.User) {
	var (
		parent *domain.Case
		lawyer *domain.User
	)
	if inc.Case {
		if c, ok := s.cases.get(caseID); ok {
			parent = &c
		}
	}
	if inc.Lawyer {
		if u, ok := s.users.get(lawyerID); ok {
			lawyer = &u
		}
	}
	return parent, lawyer
}

func (s *Store) requireLawyer(id string) error {
	u, ok := s.users.get(id)
	if !ok || u.Role != domain.RoleLawyer {
		return domain.Errorf(domain.ErrConstraintViolation, "lawyer %q does not exist or is not a lawyer", id)
	}
	return nil
}

func (s *Store) requireUser(id string) error {
	if !s.users.exists(id) {
		return domain.Errorf(domain.ErrConstraintViolation, "user %q does not exist", id)
	}
	return nil
}

func (s *Store) requireCase(id string) (domain.Case, error) {
	c, ok := s.cases.get(id)
	if !ok {
		return domain.Case{}, domain.Errorf(domain.ErrConstraintViolation, "case %q does not exist", id)
	}
	return c, nil
}

// Clones. Stored rows never hold relations, so copying the optional scalar
// pointers is enough.

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u domain.User) domain.User {
	u.Cases, u.TimeEntries, u.Documents = nil, nil, nil
	return u
}

func cloneCase(c domain.Case) domain.Case {
	c.Notes = cloneString(c.Notes)
	c.Lawyer, c.TimeEntries, c.Documents = nil, nil, nil
	return c
}

func cloneTimeEntry(e domain.TimeEntry) domain.TimeEntry {
	e.Case, e.Lawyer = nil, nil
	return e
}

func cloneDocument(d domain.Document) domain.Document {
	d.Description = cloneString(d.Description)
	d.Case, d.Lawyer = nil, nil
	return d
}
