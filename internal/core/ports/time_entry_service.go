package ports

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

type CreateTimeEntryInput struct {
	Hours       float64
	Description string
}

type UpdateTimeEntryInput struct {
	Hours       *float64
	Description *string
}

// TimeEntryService manages the time entries of one case. Every method takes
// the case id from the route; an entry that belongs to another case is
// rejected with domain.ErrInvalidArgument.
type TimeEntryService interface {
	Create(ctx context.Context, actor domain.Actor, caseID string, in CreateTimeEntryInput) (domain.TimeEntry, error)
	List(ctx context.Context, actor domain.Actor, caseID string, spec query.Spec) (Page[domain.TimeEntry], error)
	Get(ctx context.Context, actor domain.Actor, caseID, id string) (domain.TimeEntry, error)
	Update(ctx context.Context, actor domain.Actor, caseID, id string, in UpdateTimeEntryInput) (domain.TimeEntry, error)
	Delete(ctx context.Context, actor domain.Actor, caseID, id string) (domain.TimeEntry, error)
	TotalBillableHours(ctx context.Context, actor domain.Actor, caseID string) (HoursSummary, error)
}
