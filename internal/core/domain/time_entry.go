package domain

import "time"

// MaxHoursPerEntry bounds a single time entry.
const MaxHoursPerEntry = 24.0

// TimeEntry records billable work on a case.
type TimeEntry struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"caseId"`
	LawyerID    string    `json:"lawyerId"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	Case   *Case `json:"case,omitempty"`
	Lawyer *User `json:"lawyer,omitempty"`
}

func (e TimeEntry) Field(name string) (any, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "caseId":
		return e.CaseID, true
	case "lawyerId":
		return e.LawyerID, true
	case "hours":
		return e.Hours, true
	case "description":
		return e.Description, true
	case "createdAt":
		return e.CreatedAt, true
	}
	return nil, false
}

// ValidateHours enforces 0 < hours <= MaxHoursPerEntry.
func ValidateHours(hours float64) error {
	if !(hours > 0) || hours > MaxHoursPerEntry {
		return ErrInvalidHours
	}
	return nil
}

// TimeEntryPatch lists the time entry fields an update may replace.
type TimeEntryPatch struct {
	CaseID      *string
	LawyerID    *string
	Hours       *float64
	Description *string
}
