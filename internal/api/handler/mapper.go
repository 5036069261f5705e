package handler

import (
	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

// --- Domain → Response ---

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		Cases:       mapAll(u.Cases, toCaseResponse),
		TimeEntries: mapAll(u.TimeEntries, toTimeEntryResponse),
		Documents:   mapAll(u.Documents, toDocumentResponse),
	}
}

func toCaseResponse(c domain.Case) caseResponse {
	return caseResponse{
		ID:          c.ID,
		LawyerID:    c.LawyerID,
		ClientName:  c.ClientName,
		ClientEmail: c.ClientEmail,
		Status:      string(c.Status),
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		Lawyer:      mapOne(c.Lawyer, toUserResponse),
		TimeEntries: mapAll(c.TimeEntries, toTimeEntryResponse),
		Documents:   mapAll(c.Documents, toDocumentResponse),
	}
}

func toTimeEntryResponse(e domain.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:          e.ID,
		CaseID:      e.CaseID,
		LawyerID:    e.LawyerID,
		Hours:       e.Hours,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		Case:        mapOne(e.Case, toCaseResponse),
		Lawyer:      mapOne(e.Lawyer, toUserResponse),
	}
}

func toDocumentResponse(d domain.Document) documentResponse {
	return documentResponse{
		ID:          d.ID,
		CaseID:      d.CaseID,
		LawyerID:    d.LawyerID,
		FileName:    d.FileName,
		FileURL:     d.FileURL,
		FileSize:    d.FileSize,
		MimeType:    d.MimeType,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		Case:        mapOne(d.Case, toCaseResponse),
		Lawyer:      mapOne(d.Lawyer, toUserResponse),
	}
}

func toAuthResponse(res ports.AuthResult) authResponse {
	return authResponse{TokenPair: res.Tokens, User: toUserResponse(res.User)}
}

func toListResponse[T, R any](p ports.Page[T], l listing, fn func(T) R) listResponse[R] {
	data := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		data = append(data, fn(item))
	}
	return listResponse[R]{Data: data, Pagination: l.pagination(p.Total)}
}

// --- Helpers ---

func mapAll[T, R any](in []T, fn func(T) R) []R {
	if len(in) == 0 {
		return nil
	}
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func mapOne[T, R any](in *T, fn func(T) R) *R {
	if in == nil {
		return nil
	}
	r := fn(*in)
	return &r
}
