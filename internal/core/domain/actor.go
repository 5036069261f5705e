package domain

// Actor is the authenticated caller on whose behalf a service runs.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor bypasses ownership checks.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Include selects the relations materialized alongside a row. Flags that do
// not apply to an entity are ignored.
type Include struct {
	Lawyer      bool
	Cases       bool
	TimeEntries bool
	Documents   bool
	Case        bool
}

var (
	// CaseRelations is the include used by every case response.
	CaseRelations = Include{Lawyer: true, TimeEntries: true, Documents: true}
	// UserRelations is the include used by user responses.
	UserRelations = Include{Cases: true, TimeEntries: true, Documents: true}
	// ChildRelations is the include used by time entry and document responses.
	ChildRelations = Include{Case: true, Lawyer: true}
)
