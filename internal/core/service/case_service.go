package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/policy"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

type CaseService struct {
	cases   ports.CaseRepository
	entries ports.TimeEntryRepository
	logger  zerolog.Logger
}

func NewCaseService(cases ports.CaseRepository, entries ports.TimeEntryRepository, logger zerolog.Logger) *CaseService {
	return &CaseService{cases: cases, entries: entries, logger: logger}
}

var _ ports.CaseService = (*CaseService)(nil)

// Create files a new OPEN case. The lawyer defaults to the actor; the store
// rejects owners that are not registered lawyers.
func (s *CaseService) Create(ctx context.Context, actor domain.Actor, in ports.CreateCaseInput) (domain.Case, error) {
	lawyerID := in.LawyerID
	if lawyerID == "" {
		lawyerID = actor.ID
	}
	if err := policy.Check(actor, policy.Create, policy.Resource{Kind: policy.KindCase, OwnerID: lawyerID}); err != nil {
		return domain.Case{}, err
	}
	if err := required("clientName", in.ClientName); err != nil {
		return domain.Case{}, err
	}
	if err := required("clientEmail", in.ClientEmail); err != nil {
		return domain.Case{}, err
	}

	created, err := s.cases.Create(ctx, domain.Case{
		LawyerID:    lawyerID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Status:      domain.StatusOpen,
		Notes:       in.Notes,
	})
	if err != nil {
		return domain.Case{}, err
	}
	s.logger.Info().Str("case_id", created.ID).Str("lawyer_id", created.LawyerID).Msg("case created")
	return s.withRelations(ctx, created), nil
}

func (s *CaseService) List(ctx context.Context, actor domain.Actor, spec query.Spec) (ports.Page[domain.Case], error) {
	scoped, err := policy.Scoped(actor, spec.WithDefaultOrder("createdAt", query.Desc))
	if err != nil {
		return ports.Page[domain.Case]{}, err
	}
	return page(ctx, scoped, domain.CaseRelations, s.cases.FindMany, s.cases.Count)
}

// Search matches term as a substring of the client name or email. Lawyers
// only ever see their own cases.
func (s *CaseService) Search(ctx context.Context, actor domain.Actor, term string, spec query.Spec) (ports.Page[domain.Case], error) {
	if err := required("search term", term); err != nil {
		return ports.Page[domain.Case]{}, err
	}
	spec, err := spec.And(query.Or(
		query.Where{query.Contains("clientName", term)},
		query.Where{query.Contains("clientEmail", term)},
	))
	if err != nil {
		return ports.Page[domain.Case]{}, err
	}
	return s.List(ctx, actor, spec)
}

func (s *CaseService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Case, error) {
	c, err := s.cases.FindByID(ctx, id, domain.CaseRelations)
	if err != nil {
		return domain.Case{}, err
	}
	if err := policy.Check(actor, policy.Read, policy.ForCase(c)); err != nil {
		return domain.Case{}, err
	}
	return c, nil
}

// Update replaces the provided fields. Reassigning a case requires the
// right to create cases for the new lawyer.
func (s *CaseService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateCaseInput) (domain.Case, error) {
	if err := optional("clientName", in.ClientName); err != nil {
		return domain.Case{}, err
	}
	if err := optional("clientEmail", in.ClientEmail); err != nil {
		return domain.Case{}, err
	}
	if err := optional("lawyerId", in.LawyerID); err != nil {
		return domain.Case{}, err
	}
	patch := domain.CasePatch{
		LawyerID:    in.LawyerID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Notes:       in.Notes,
	}
	if in.Status != nil {
		status := domain.CaseStatus(*in.Status)
		patch.Status = &status
	}
	updated, err := s.cases.Update(ctx, id, patch, func(c domain.Case) error {
		if err := policy.Check(actor, policy.Update, policy.ForCase(c)); err != nil {
			return err
		}
		if in.LawyerID != nil && *in.LawyerID != c.LawyerID {
			return policy.Check(actor, policy.Create, policy.Resource{Kind: policy.KindCase, OwnerID: *in.LawyerID})
		}
		return nil
	})
	if err != nil {
		return domain.Case{}, err
	}
	s.logger.Info().Str("case_id", updated.ID).Msg("case updated")
	return s.withRelations(ctx, updated), nil
}

// ChangeStatus moves a case to status. Unknown values leave the case as it
// was.
func (s *CaseService) ChangeStatus(ctx context.Context, actor domain.Actor, id string, status string) (domain.Case, error) {
	next := domain.CaseStatus(status)
	updated, err := s.cases.Update(ctx, id, domain.CasePatch{Status: &next}, s.guard(actor, policy.Update))
	if err != nil {
		return domain.Case{}, err
	}
	s.logger.Info().Str("case_id", updated.ID).Str("status", string(updated.Status)).Msg("case status changed")
	return s.withRelations(ctx, updated), nil
}

// Delete removes a case that has no time entries or documents left.
func (s *CaseService) Delete(ctx context.Context, actor domain.Actor, id string) (domain.Case, error) {
	deleted, err := s.cases.Delete(ctx, id, s.guard(actor, policy.Delete))
	if err != nil {
		return domain.Case{}, err
	}
	s.logger.Info().Str("case_id", deleted.ID).Msg("case deleted")
	return deleted, nil
}

func (s *CaseService) TotalBillableHours(ctx context.Context, actor domain.Actor, id string) (ports.HoursSummary, error) {
	c, err := s.cases.FindByID(ctx, id, domain.Include{})
	if err != nil {
		return ports.HoursSummary{}, err
	}
	if err := policy.Check(actor, policy.Read, policy.ForCase(c)); err != nil {
		return ports.HoursSummary{}, err
	}
	return sumHours(ctx, s.entries, c.ID)
}

func (s *CaseService) guard(actor domain.Actor, action policy.Action) ports.CaseGuard {
	return func(c domain.Case) error {
		return policy.Check(actor, action, policy.ForCase(c))
	}
}

// withRelations re-reads c with its relations. The write already happened,
// so a failed read falls back to the bare row.
func (s *CaseService) withRelations(ctx context.Context, c domain.Case) domain.Case {
	full, err := s.cases.FindByID(ctx, c.ID, domain.CaseRelations)
	if err != nil {
		s.logger.Warn().Err(err).Str("case_id", c.ID).Msg("could not load case relations")
		return c
	}
	return full
}
