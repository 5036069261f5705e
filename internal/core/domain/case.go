package domain

import "time"

// CaseStatus represents the lifecycle state of a case.
type CaseStatus string

const (
	StatusOpen     CaseStatus = "OPEN"
	StatusClosed   CaseStatus = "CLOSED"
	StatusInReview CaseStatus = "IN_REVIEW"
	StatusPending  CaseStatus = "PENDING"
)

// CaseStatuses lists every accepted status in declaration order.
var CaseStatuses = []CaseStatus{StatusOpen, StatusClosed, StatusInReview, StatusPending}

// Valid reports whether s is one of CaseStatuses.
func (s CaseStatus) Valid() bool {
	for _, known := range CaseStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Case is a client matter owned by exactly one lawyer.
type Case struct {
	ID          string     `json:"id"`
	LawyerID    string     `json:"lawyerId"`
	ClientName  string     `json:"clientName"`
	ClientEmail string     `json:"clientEmail"`
	Status      CaseStatus `json:"status"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	Lawyer      *User       `json:"lawyer,omitempty"`
	TimeEntries []TimeEntry `json:"timeEntries,omitempty"`
	Documents   []Document  `json:"documents,omitempty"`
}

func (c Case) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "lawyerId":
		return c.LawyerID, true
	case "clientName":
		return c.ClientName, true
	case "clientEmail":
		return c.ClientEmail, true
	case "status":
		return string(c.Status), true
	case "notes":
		if c.Notes == nil {
			return nil, true
		}
		return *c.Notes, true
	case "createdAt":
		return c.CreatedAt, true
	}
	return nil, false
}

// CasePatch lists the case fields an update may replace.
type CasePatch struct {
	LawyerID    *string
	ClientName  *string
	ClientEmail *string
	Status      *CaseStatus
	Notes       *string
}
