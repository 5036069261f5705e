package service

import (
	"context"
	"strings"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/policy"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

// required rejects a blank mandatory field.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalidf("%s is required", field)
	}
	return nil
}

// optional rejects a provided but blank updatable field.
func optional(field string, value *string) error {
	if value == nil {
		return nil
	}
	return required(field, *value)
}

// parentCase loads the case addressed by a nested route and checks that
// actor may perform action on rows of kind under it.
func parentCase(ctx context.Context, cases ports.CaseRepository, actor domain.Actor, action policy.Action, kind policy.Kind, caseID string) (domain.Case, error) {
	c, err := cases.FindByID(ctx, caseID, domain.Include{})
	if err != nil {
		return domain.Case{}, err
	}
	if err := policy.Check(actor, action, policy.ForChild(kind, c)); err != nil {
		return domain.Case{}, err
	}
	return c, nil
}

// belongsTo rejects a child row addressed through a case it is not filed
// under.
func belongsTo(kind policy.Kind, rowCaseID, caseID string) error {
	if rowCaseID != caseID {
		return domain.Invalidf("%s does not belong to case %s", kind, caseID)
	}
	return nil
}

// page runs spec and the matching count against a collection.
func page[T any](ctx context.Context, spec query.Spec, inc domain.Include,
	find func(context.Context, query.Spec, domain.Include) ([]T, error),
	count func(context.Context, query.Spec) (int, error),
) (ports.Page[T], error) {
	items, err := find(ctx, spec, inc)
	if err != nil {
		return ports.Page[T]{}, err
	}
	total, err := count(ctx, spec)
	if err != nil {
		return ports.Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return ports.Page[T]{Items: items, Total: total}, nil
}

// sumHours totals the billable hours recorded against caseID.
func sumHours(ctx context.Context, entries ports.TimeEntryRepository, caseID string) (ports.HoursSummary, error) {
	spec, err := query.New(query.Filter(query.Eq("caseId", caseID)))
	if err != nil {
		return ports.HoursSummary{}, err
	}
	rows, err := entries.FindMany(ctx, spec, domain.Include{})
	if err != nil {
		return ports.HoursSummary{}, err
	}
	summary := ports.HoursSummary{CaseID: caseID, EntriesCount: len(rows)}
	for _, e := range rows {
		summary.TotalHours += e.Hours
	}
	return summary, nil
}
