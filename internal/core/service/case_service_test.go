package service

import (
	"context"
	"testing"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

func TestCaseService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lawyer := f.user(t, "l@example.com", domain.RoleLawyer)

	c := f.newCase(t, lawyer, "John Doe")
	if c.Status != domain.StatusOpen {
		t.Fatalf("new case status = %s, want OPEN", c.Status)
	}
	if c.Lawyer == nil || c.Lawyer.ID != lawyer.ID {
		t.Fatalf("expected lawyer relation on created case, got %+v", c.Lawyer)
	}

	entry, err := f.entries.Create(ctx, lawyer, c.ID, ports.CreateTimeEntryInput{Hours: 2.5, Description: "Initial consultation"})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	summary, err := f.cases.TotalBillableHours(ctx, lawyer, c.ID)
	if err != nil {
		t.Fatalf("total hours: %v", err)
	}
	if summary.TotalHours != 2.5 || summary.EntriesCount != 1 || summary.CaseID != c.ID {
		t.Fatalf("unexpected summary %+v", summary)
	}

	_, err = f.cases.Delete(ctx, lawyer, c.ID)
	wantKind(t, err, domain.ErrConstraintViolation)

	if _, err := f.entries.Delete(ctx, lawyer, c.ID, entry.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if _, err := f.cases.Delete(ctx, lawyer, c.ID); err != nil {
		t.Fatalf("delete case after clearing dependents: %v", err)
	}
	_, err = f.cases.Get(ctx, lawyer, c.ID)
	wantKind(t, err, domain.ErrNotFound)
}

func TestCaseService_AdminSeesEveryLawyer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	a := f.user(t, "a@example.com", domain.RoleLawyer)
	b := f.user(t, "b@example.com", domain.RoleLawyer)
	f.newCase(t, a, "Alpha")
	f.newCase(t, b, "Beta")

	spec, _ := query.New()
	all, err := f.cases.List(ctx, admin, spec)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if all.Total != 2 || len(all.Items) != 2 {
		t.Fatalf("admin should see 2 cases, got %d/%d", len(all.Items), all.Total)
	}

	own, err := f.cases.List(ctx, a, spec)
	if err != nil {
		t.Fatalf("lawyer list: %v", err)
	}
	if own.Total != 1 || own.Items[0].LawyerID != a.ID {
		t.Fatalf("lawyer must only see own cases, got %+v", own.Items)
	}
}

func TestCaseService_ListPaginatesAndCountsAll(t *testing.T) {
	f := newFixture(t)
	lawyer := f.user(t, "l@example.com", domain.RoleLawyer)
	for _, name := range []string{"A", "B", "C"} {
		f.newCase(t, lawyer, name)
	}
	spec, err := query.New(query.Take(2))
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	p, err := f.cases.List(context.Background(), lawyer, spec)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(p.Items) != 2 || p.Total != 3 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(p.Items), p.Total)
	}
	if p.Items[0].ClientName != "C" {
		t.Fatalf("default order must be newest first, got %s", p.Items[0].ClientName)
	}
}

func TestCaseService_OwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@example.com", domain.RoleLawyer)
	b := f.user(t, "b@example.com", domain.RoleLawyer)
	c := f.newCase(t, a, "Alpha")

	_, err := f.cases.Get(ctx, b, c.ID)
	wantKind(t, err, domain.ErrForbidden)

	name := "Hijacked"
	_, err = f.cases.Update(ctx, b, c.ID, ports.UpdateCaseInput{ClientName: &name})
	wantKind(t, err, domain.ErrForbidden)

	_, err = f.cases.ChangeStatus(ctx, b, c.ID, "CLOSED")
	wantKind(t, err, domain.ErrForbidden)

	_, err = f.cases.Delete(ctx, b, c.ID)
	wantKind(t, err, domain.ErrForbidden)

	_, err = f.cases.TotalBillableHours(ctx, b, c.ID)
	wantKind(t, err, domain.ErrForbidden)

	got, err := f.cases.Get(ctx, a, c.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.ClientName != "Alpha" || got.Status != domain.StatusOpen {
		t.Fatalf("denied writes must not change the case, got %+v", got)
	}
}

func TestCaseService_ChangeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lawyer := f.user(t, "l@example.com", domain.RoleLawyer)
	c := f.newCase(t, lawyer, "Alpha")

	updated, err := f.cases.ChangeStatus(ctx, lawyer, c.ID, "IN_REVIEW")
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != domain.StatusInReview {
		t.Fatalf("status = %s, want IN_REVIEW", updated.Status)
	}

	_, err = f.cases.ChangeStatus(ctx, lawyer, c.ID, "ARCHIVED")
	wantKind(t, err, domain.ErrInvalidArgument)

	got, _ := f.cases.Get(ctx, lawyer, c.ID)
	if got.Status != domain.StatusInReview {
		t.Fatalf("invalid status must leave case unchanged, got %s", got.Status)
	}
}

func TestCaseService_CreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	a := f.user(t, "a@example.com", domain.RoleLawyer)
	b := f.user(t, "b@example.com", domain.RoleLawyer)

	_, err := f.cases.Create(ctx, admin, ports.CreateCaseInput{ClientName: "X", ClientEmail: "x@example.com"})
	wantKind(t, err, domain.ErrConstraintViolation)

	c, err := f.cases.Create(ctx, admin, ports.CreateCaseInput{LawyerID: a.ID, ClientName: "X", ClientEmail: "x@example.com"})
	if err != nil {
		t.Fatalf("admin create for lawyer: %v", err)
	}
	if c.LawyerID != a.ID {
		t.Fatalf("lawyerId = %s, want %s", c.LawyerID, a.ID)
	}

	_, err = f.cases.Create(ctx, a, ports.CreateCaseInput{LawyerID: b.ID, ClientName: "X", ClientEmail: "x@example.com"})
	wantKind(t, err, domain.ErrForbidden)

	_, err = f.cases.Create(ctx, a, ports.CreateCaseInput{ClientName: " ", ClientEmail: "x@example.com"})
	wantKind(t, err, domain.ErrInvalidArgument)
}

func TestCaseService_Reassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	a := f.user(t, "a@example.com", domain.RoleLawyer)
	b := f.user(t, "b@example.com", domain.RoleLawyer)
	c := f.newCase(t, a, "Alpha")

	_, err := f.cases.Update(ctx, a, c.ID, ports.UpdateCaseInput{LawyerID: &b.ID})
	wantKind(t, err, domain.ErrForbidden)

	moved, err := f.cases.Update(ctx, admin, c.ID, ports.UpdateCaseInput{LawyerID: &b.ID})
	if err != nil {
		t.Fatalf("admin reassign: %v", err)
	}
	if moved.LawyerID != b.ID || moved.Lawyer == nil || moved.Lawyer.ID != b.ID {
		t.Fatalf("expected case moved to b, got %+v", moved)
	}

	_, err = f.cases.Update(ctx, admin, c.ID, ports.UpdateCaseInput{LawyerID: &admin.ID})
	wantKind(t, err, domain.ErrConstraintViolation)
}

func TestCaseService_SearchIsScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	a := f.user(t, "a@example.com", domain.RoleLawyer)
	b := f.user(t, "b@example.com", domain.RoleLawyer)
	f.newCase(t, a, "Smith")
	f.newCase(t, a, "Jones")
	f.newCase(t, b, "Smithers")

	spec, _ := query.New()
	own, err := f.cases.Search(ctx, a, "Smith", spec)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if own.Total != 1 || own.Items[0].ClientName != "Smith" {
		t.Fatalf("lawyer search must AND the scope with the OR, got %+v", own.Items)
	}

	all, err := f.cases.Search(ctx, admin, "Smith", spec)
	if err != nil {
		t.Fatalf("admin search: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("admin search total = %d, want 2", all.Total)
	}

	byEmail, err := f.cases.Search(ctx, admin, "jones@", spec)
	if err != nil {
		t.Fatalf("email search: %v", err)
	}
	if byEmail.Total != 0 {
		t.Fatalf("search is case-sensitive, got %d", byEmail.Total)
	}
	byEmail, _ = f.cases.Search(ctx, admin, "Jones@", spec)
	if byEmail.Total != 1 {
		t.Fatalf("expected email match, got %d", byEmail.Total)
	}

	_, err = f.cases.Search(ctx, a, "", spec)
	wantKind(t, err, domain.ErrInvalidArgument)
}
