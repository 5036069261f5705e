package memory

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

// CaseRepository is the Cases collection of a Store.
type CaseRepository struct{ s *Store }

func (r *CaseRepository) Create(ctx context.Context, c domain.Case) (domain.Case, error) {
	if err := begin(ctx); err != nil {
		return domain.Case{}, err
	}
	if c.Status == "" {
		c.Status = domain.StatusOpen
	}
	if !c.Status.Valid() {
		return domain.Case{}, domain.ErrInvalidStatus
	}

	unlock := r.s.acquire(casesTable, usersTable)
	defer unlock()

	if err := r.s.requireLawyer(c.LawyerID); err != nil {
		return domain.Case{}, err
	}
	c = cloneCase(c)
	c.ID = r.s.newID()
	c.CreatedAt = r.s.now()
	r.s.cases.insert(c.ID, c)
	return cloneCase(c), nil
}

func (r *CaseRepository) FindByID(ctx context.Context, id string, inc domain.Include) (domain.Case, error) {
	if err := begin(ctx); err != nil {
		return domain.Case{}, err
	}
	unlock := r.s.acquire(0, casesTable|caseLocks(inc))
	defer unlock()

	c, ok := r.s.cases.get(id)
	if !ok {
		return domain.Case{}, domain.ErrCaseNotFound
	}
	return r.s.withCaseRelations(c, inc), nil
}

func (r *CaseRepository) FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.Case, error) {
	if err := begin(ctx); err != nil {
		return nil, err
	}
	unlock := r.s.acquire(0, casesTable|caseLocks(inc))
	defer unlock()

	rows := r.s.cases.find(spec)
	for i := range rows {
		rows[i] = r.s.withCaseRelations(rows[i], inc)
	}
	return rows, nil
}

func (r *CaseRepository) Count(ctx context.Context, spec query.Spec) (int, error) {
	if err := begin(ctx); err != nil {
		return 0, err
	}
	unlock := r.s.acquire(0, casesTable)
	defer unlock()
	return r.s.cases.count(spec), nil
}

// Update runs guard against the stored case before validating the patch, so
// an actor without access learns nothing about the patch's validity.
func (r *CaseRepository) Update(ctx context.Context, id string, patch domain.CasePatch, guard ports.CaseGuard) (domain.Case, error) {
	if err := begin(ctx); err != nil {
		return domain.Case{}, err
	}
	unlock := r.s.acquire(casesTable, usersTable)
	defer unlock()

	c, ok := r.s.cases.get(id)
	if !ok {
		return domain.Case{}, domain.ErrCaseNotFound
	}
	if guard != nil {
		if err := guard(c); err != nil {
			return domain.Case{}, err
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.Case{}, domain.ErrInvalidStatus
	}
	if patch.LawyerID != nil && *patch.LawyerID != c.LawyerID {
		if err := r.s.requireLawyer(*patch.LawyerID); err != nil {
			return domain.Case{}, err
		}
		c.LawyerID = *patch.LawyerID
	}
	if patch.ClientName != nil {
		c.ClientName = *patch.ClientName
	}
	if patch.ClientEmail != nil {
		c.ClientEmail = *patch.ClientEmail
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Notes != nil {
		c.Notes = cloneString(patch.Notes)
	}
	r.s.cases.replace(id, c)
	return cloneCase(c), nil
}

func (r *CaseRepository) Delete(ctx context.Context, id string, guard ports.CaseGuard) (domain.Case, error) {
	if err := begin(ctx); err != nil {
		return domain.Case{}, err
	}
	unlock := r.s.acquire(casesTable, entriesTable|documentsTable)
	defer unlock()

	c, ok := r.s.cases.get(id)
	if !ok {
		return domain.Case{}, domain.ErrCaseNotFound
	}
	if guard != nil {
		if err := guard(c); err != nil {
			return domain.Case{}, err
		}
	}
	entries := r.s.entries.countRefs("caseId", id)
	docs := r.s.documents.countRefs("caseId", id)
	if entries > 0 || docs > 0 {
		return domain.Case{}, domain.Errorf(domain.ErrConstraintViolation,
			"case is still referenced by %d time entries and %d documents", entries, docs)
	}
	r.s.cases.remove(id)
	return c, nil
}
