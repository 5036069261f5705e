package ports

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

// CreateCaseInput carries the fields of a new case. LawyerID defaults to the
// actor; only admins may assign another lawyer.
type CreateCaseInput struct {
	LawyerID    string
	ClientName  string
	ClientEmail string
	Notes       *string
}

// UpdateCaseInput replaces the provided fields.
type UpdateCaseInput struct {
	ClientName  *string
	ClientEmail *string
	Notes       *string
	LawyerID    *string
	Status      *string
}

// HoursSummary is the billable total of a case.
type HoursSummary struct {
	CaseID       string  `json:"caseId"`
	TotalHours   float64 `json:"totalHours"`
	EntriesCount int     `json:"entriesCount"`
}

type CaseService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateCaseInput) (domain.Case, error)
	List(ctx context.Context, actor domain.Actor, spec query.Spec) (Page[domain.Case], error)
	// Search matches term against clientName or clientEmail.
	Search(ctx context.Context, actor domain.Actor, term string, spec query.Spec) (Page[domain.Case], error)
	Get(ctx context.Context, actor domain.Actor, id string) (domain.Case, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateCaseInput) (domain.Case, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id string, status string) (domain.Case, error)
	Delete(ctx context.Context, actor domain.Actor, id string) (domain.Case, error)
	TotalBillableHours(ctx context.Context, actor domain.Actor, id string) (HoursSummary, error)
}
