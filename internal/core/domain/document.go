package domain

import "time"

// Document is the metadata record of a file held by external storage.
// FileURL is the opaque locator returned by the storage backend.
type Document struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"caseId"`
	LawyerID    string    `json:"lawyerId"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	FileSize    int64     `json:"fileSize"`
	MimeType    string    `json:"mimeType"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	Case   *Case `json:"case,omitempty"`
	Lawyer *User `json:"lawyer,omitempty"`
}

func (d Document) Field(name string) (any, bool) {
	switch name {
	case "id":
		return d.ID, true
	case "caseId":
		return d.CaseID, true
	case "lawyerId":
		return d.LawyerID, true
	case "fileName":
		return d.FileName, true
	case "fileUrl":
		return d.FileURL, true
	case "fileSize":
		return d.FileSize, true
	case "mimeType":
		return d.MimeType, true
	case "description":
		if d.Description == nil {
			return nil, true
		}
		return *d.Description, true
	case "createdAt":
		return d.CreatedAt, true
	}
	return nil, false
}

// DocumentPatch lists the document fields an update may replace.
type DocumentPatch struct {
	CaseID      *string
	LawyerID    *string
	FileName    *string
	FileURL     *string
	FileSize    *int64
	MimeType    *string
	Description *string
}
