package domain

import "time"

// Role is the authorization role carried by every user and token.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleLawyer Role = "LAWYER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLawyer
}

// User models an account. Relation fields are only populated when requested
// through an Include.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`

	Cases       []Case      `json:"cases,omitempty"`
	TimeEntries []TimeEntry `json:"timeEntries,omitempty"`
	Documents   []Document  `json:"documents,omitempty"`
}

// Field exposes the queryable columns of a user. The password hash is
// not queryable.
func (u User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "fullName":
		return u.FullName, true
	case "email":
		return u.Email, true
	case "role":
		return string(u.Role), true
	case "createdAt":
		return u.CreatedAt, true
	}
	return nil, false
}

// UserPatch lists the user fields an update may replace. Nil fields are kept.
type UserPatch struct {
	FullName     *string
	Email        *string
	PasswordHash *string
	Role         *Role
}
