package memory

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

// TimeEntryRepository is the TimeEntries collection of a Store.
type TimeEntryRepository struct{ s *Store }

func (r *TimeEntryRepository) Create(ctx context.Context, e domain.TimeEntry, guard ports.CaseGuard) (domain.TimeEntry, error) {
	if err := begin(ctx); err != nil {
		return domain.TimeEntry{}, err
	}
	if err := domain.ValidateHours(e.Hours); err != nil {
		return domain.TimeEntry{}, err
	}

	unlock := r.s.acquire(entriesTable, usersTable|casesTable)
	defer unlock()

	parent, err := r.s.requireCase(e.CaseID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if guard != nil {
		if err := guard(parent); err != nil {
			return domain.TimeEntry{}, err
		}
	}
	if err := r.s.requireUser(e.LawyerID); err != nil {
		return domain.TimeEntry{}, err
	}
	e = cloneTimeEntry(e)
	e.ID = r.s.newID()
	e.CreatedAt = r.s.now()
	r.s.entries.insert(e.ID, e)
	return cloneTimeEntry(e), nil
}

func (r *TimeEntryRepository) FindByID(ctx context.Context, id string, inc domain.Include) (domain.TimeEntry, error) {
	if err := begin(ctx); err != nil {
		return domain.TimeEntry{}, err
	}
	unlock := r.s.acquire(0, entriesTable|childLocks(inc))
	defer unlock()

	e, ok := r.s.entries.get(id)
	if !ok {
		return domain.TimeEntry{}, domain.ErrTimeEntryNotFound
	}
	e.Case, e.Lawyer = r.s.parentAndLawyer(e.CaseID, e.LawyerID, inc)
	return e, nil
}

func (r *TimeEntryRepository) FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.TimeEntry, error) {
	if err := begin(ctx); err != nil {
		return nil, err
	}
	unlock := r.s.acquire(0, entriesTable|childLocks(inc))
	defer unlock()

	rows := r.s.entries.find(spec)
	for i := range rows {
		rows[i].Case, rows[i].Lawyer = r.s.parentAndLawyer(rows[i].CaseID, rows[i].LawyerID, inc)
	}
	return rows, nil
}

func (r *TimeEntryRepository) Count(ctx context.Context, spec query.Spec) (int, error) {
	if err := begin(ctx); err != nil {
		return 0, err
	}
	unlock := r.s.acquire(0, entriesTable)
	defer unlock()
	return r.s.entries.count(spec), nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, id string, patch domain.TimeEntryPatch, guard ports.ChildGuard[domain.TimeEntry]) (domain.TimeEntry, error) {
	if err := begin(ctx); err != nil {
		return domain.TimeEntry{}, err
	}
	unlock := r.s.acquire(entriesTable, usersTable|casesTable)
	defer unlock()

	e, ok := r.s.entries.get(id)
	if !ok {
		return domain.TimeEntry{}, domain.ErrTimeEntryNotFound
	}
	parent, err := r.s.requireCase(e.CaseID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if guard != nil {
		if err := guard(e, parent); err != nil {
			return domain.TimeEntry{}, err
		}
	}
	if patch.CaseID != nil && *patch.CaseID != e.CaseID {
		target, err := r.s.requireCase(*patch.CaseID)
		if err != nil {
			return domain.TimeEntry{}, err
		}
		if guard != nil {
			if err := guard(e, target); err != nil {
				return domain.TimeEntry{}, err
			}
		}
		e.CaseID = target.ID
	}
	if patch.LawyerID != nil {
		if err := r.s.requireUser(*patch.LawyerID); err != nil {
			return domain.TimeEntry{}, err
		}
		e.LawyerID = *patch.LawyerID
	}
	if patch.Hours != nil {
		if err := domain.ValidateHours(*patch.Hours); err != nil {
			return domain.TimeEntry{}, err
		}
		e.Hours = *patch.Hours
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	r.s.entries.replace(id, e)
	return cloneTimeEntry(e), nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id string, guard ports.ChildGuard[domain.TimeEntry]) (domain.TimeEntry, error) {
	if err := begin(ctx); err != nil {
		return domain.TimeEntry{}, err
	}
	unlock := r.s.acquire(entriesTable, casesTable)
	defer unlock()

	e, ok := r.s.entries.get(id)
	if !ok {
		return domain.TimeEntry{}, domain.ErrTimeEntryNotFound
	}
	if guard != nil {
		parent, err := r.s.requireCase(e.CaseID)
		if err != nil {
			return domain.TimeEntry{}, err
		}
		if err := guard(e, parent); err != nil {
			return domain.TimeEntry{}, err
		}
	}
	r.s.entries.remove(id)
	return e, nil
}
