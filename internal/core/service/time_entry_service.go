package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/policy"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

type TimeEntryService struct {
	cases   ports.CaseRepository
	entries ports.TimeEntryRepository
	logger  zerolog.Logger
}

func NewTimeEntryService(cases ports.CaseRepository, entries ports.TimeEntryRepository, logger zerolog.Logger) *TimeEntryService {
	return &TimeEntryService{cases: cases, entries: entries, logger: logger}
}

var _ ports.TimeEntryService = (*TimeEntryService)(nil)

// Create records work by actor on caseID.
func (s *TimeEntryService) Create(ctx context.Context, actor domain.Actor, caseID string, in ports.CreateTimeEntryInput) (domain.TimeEntry, error) {
	if _, err := parentCase(ctx, s.cases, actor, policy.Create, policy.KindTimeEntry, caseID); err != nil {
		return domain.TimeEntry{}, err
	}
	if err := required("description", in.Description); err != nil {
		return domain.TimeEntry{}, err
	}
	created, err := s.entries.Create(ctx, domain.TimeEntry{
		CaseID:      caseID,
		LawyerID:    actor.ID,
		Hours:       in.Hours,
		Description: in.Description,
	}, func(parent domain.Case) error {
		return policy.Check(actor, policy.Create, policy.ForChild(policy.KindTimeEntry, parent))
	})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	s.logger.Info().Str("time_entry_id", created.ID).Str("case_id", created.CaseID).Float64("hours", created.Hours).Msg("time entry created")
	return s.withRelations(ctx, created), nil
}

// List returns the entries of caseID, newest first unless spec orders
// otherwise.
func (s *TimeEntryService) List(ctx context.Context, actor domain.Actor, caseID string, spec query.Spec) (ports.Page[domain.TimeEntry], error) {
	if _, err := parentCase(ctx, s.cases, actor, policy.Read, policy.KindTimeEntry, caseID); err != nil {
		return ports.Page[domain.TimeEntry]{}, err
	}
	spec, err := spec.WithDefaultOrder("createdAt", query.Desc).And(query.Eq("caseId", caseID))
	if err != nil {
		return ports.Page[domain.TimeEntry]{}, err
	}
	return page(ctx, spec, domain.ChildRelations, s.entries.FindMany, s.entries.Count)
}

func (s *TimeEntryService) Get(ctx context.Context, actor domain.Actor, caseID, id string) (domain.TimeEntry, error) {
	e, err := s.entries.FindByID(ctx, id, domain.ChildRelations)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if err := belongsTo(policy.KindTimeEntry, e.CaseID, caseID); err != nil {
		return domain.TimeEntry{}, err
	}
	if _, err := parentCase(ctx, s.cases, actor, policy.Read, policy.KindTimeEntry, caseID); err != nil {
		return domain.TimeEntry{}, err
	}
	return e, nil
}

func (s *TimeEntryService) Update(ctx context.Context, actor domain.Actor, caseID, id string, in ports.UpdateTimeEntryInput) (domain.TimeEntry, error) {
	if err := optional("description", in.Description); err != nil {
		return domain.TimeEntry{}, err
	}
	updated, err := s.entries.Update(ctx, id, domain.TimeEntryPatch{
		Hours:       in.Hours,
		Description: in.Description,
	}, s.guard(actor, policy.Update, caseID))
	if err != nil {
		return domain.TimeEntry{}, err
	}
	s.logger.Info().Str("time_entry_id", updated.ID).Str("case_id", updated.CaseID).Msg("time entry updated")
	return s.withRelations(ctx, updated), nil
}

func (s *TimeEntryService) Delete(ctx context.Context, actor domain.Actor, caseID, id string) (domain.TimeEntry, error) {
	deleted, err := s.entries.Delete(ctx, id, s.guard(actor, policy.Delete, caseID))
	if err != nil {
		return domain.TimeEntry{}, err
	}
	s.logger.Info().Str("time_entry_id", deleted.ID).Str("case_id", deleted.CaseID).Msg("time entry deleted")
	return deleted, nil
}

func (s *TimeEntryService) TotalBillableHours(ctx context.Context, actor domain.Actor, caseID string) (ports.HoursSummary, error) {
	if _, err := parentCase(ctx, s.cases, actor, policy.Read, policy.KindTimeEntry, caseID); err != nil {
		return ports.HoursSummary{}, err
	}
	return sumHours(ctx, s.entries, caseID)
}

func (s *TimeEntryService) guard(actor domain.Actor, action policy.Action, caseID string) ports.ChildGuard[domain.TimeEntry] {
	return func(e domain.TimeEntry, parent domain.Case) error {
		if err := belongsTo(policy.KindTimeEntry, e.CaseID, caseID); err != nil {
			return err
		}
		return policy.Check(actor, action, policy.ForChild(policy.KindTimeEntry, parent))
	}
}

func (s *TimeEntryService) withRelations(ctx context.Context, e domain.TimeEntry) domain.TimeEntry {
	full, err := s.entries.FindByID(ctx, e.ID, domain.ChildRelations)
	if err != nil {
		s.logger.Warn().Err(err).Str("time_entry_id", e.ID).Msg("could not load time entry relations")
		return e
	}
	return full
}
