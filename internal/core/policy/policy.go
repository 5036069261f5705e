// Package policy decides which actor may touch which row. Every domain
// service goes through it; nothing else compares roles or owner ids.
package policy

import (
	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

// Action is what an actor wants to do with a resource.
type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Kind names a protected collection.
type Kind string

const (
	KindCase      Kind = "case"
	KindTimeEntry Kind = "time entry"
	KindDocument  Kind = "document"
	KindUser      Kind = "user"
)

// Resource is the part of a row the policy needs: what it is and which
// user it is attributed to along the ownership chain.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// ForCase attributes a case to its lawyer.
func ForCase(c domain.Case) Resource {
	return Resource{Kind: KindCase, OwnerID: c.LawyerID}
}

// ForChild attributes a time entry or document to the lawyer of its parent
// case, regardless of who authored the row.
func ForChild(kind Kind, parent domain.Case) Resource {
	return Resource{Kind: kind, OwnerID: parent.LawyerID}
}

// ForUser attributes a user account to itself.
func ForUser(u domain.User) Resource {
	return Resource{Kind: KindUser, OwnerID: u.ID}
}

// Users is the resource for creating or listing accounts, which no lawyer
// owns.
var Users = Resource{Kind: KindUser}

// IsAuthorized is the role-resource matrix. Admins may do anything. Lawyers
// may act on cases they own and on the children of those cases, and may only
// read their own account.
func IsAuthorized(actor domain.Actor, action Action, res Resource) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleLawyer:
		if actor.ID == "" || res.OwnerID != actor.ID {
			return false
		}
		if res.Kind == KindUser {
			return action == Read
		}
		return true
	default:
		return false
	}
}

// Check is IsAuthorized returning domain.ErrForbidden on denial.
func Check(actor domain.Actor, action Action, res Resource) error {
	if IsAuthorized(actor, action, res) {
		return nil
	}
	return domain.Errorf(domain.ErrForbidden, "you do not have permission to %s this %s", action, res.Kind)
}

// Scope returns the clauses that narrow a case listing to what actor may
// read. Admins get none. The result is identical to filtering the unscoped
// listing through IsAuthorized.
func Scope(actor domain.Actor) []query.Clause {
	if actor.IsAdmin() {
		return nil
	}
	return []query.Clause{query.Eq("lawyerId", actor.ID)}
}

// Scoped applies Scope to spec.
func Scoped(actor domain.Actor, spec query.Spec) (query.Spec, error) {
	clauses := Scope(actor)
	if len(clauses) == 0 {
		return spec, nil
	}
	return spec.And(clauses...)
}
