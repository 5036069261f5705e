package handler

import (
	"time"

	"github.com/legaltech/case-management/internal/core/ports"
)

// --- Requests ---

type registerRequest struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type createCaseRequest struct {
	LawyerID    string  `json:"lawyerId"`
	ClientName  string  `json:"clientName" validate:"required,max=100"`
	ClientEmail string  `json:"clientEmail" validate:"required,email"`
	Notes       *string `json:"notes"`
}

type updateCaseRequest struct {
	LawyerID    *string `json:"lawyerId" validate:"omitempty,min=1"`
	ClientName  *string `json:"clientName" validate:"omitempty,min=1,max=100"`
	ClientEmail *string `json:"clientEmail" validate:"omitempty,email"`
	Status      *string `json:"status" validate:"omitempty,oneof=OPEN CLOSED IN_REVIEW PENDING"`
	Notes       *string `json:"notes"`
}

type createTimeEntryRequest struct {
	Hours       float64 `json:"hours" validate:"gt=0,lte=24"`
	Description string  `json:"description" validate:"required"`
}

type updateTimeEntryRequest struct {
	Hours       *float64 `json:"hours" validate:"omitempty,gt=0,lte=24"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
}

type createUserRequest struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type updateUserRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,password"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN LAWYER"`
}

// --- Responses ---

type userResponse struct {
	ID          string              `json:"id"`
	FullName    string              `json:"fullName"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	CreatedAt   time.Time           `json:"createdAt"`
	Cases       []caseResponse      `json:"cases,omitempty"`
	TimeEntries []timeEntryResponse `json:"timeEntries,omitempty"`
	Documents   []documentResponse  `json:"documents,omitempty"`
}

type caseResponse struct {
	ID          string              `json:"id"`
	LawyerID    string              `json:"lawyerId"`
	ClientName  string              `json:"clientName"`
	ClientEmail string              `json:"clientEmail"`
	Status      string              `json:"status"`
	Notes       *string             `json:"notes"`
	CreatedAt   time.Time           `json:"createdAt"`
	Lawyer      *userResponse       `json:"lawyer,omitempty"`
	TimeEntries []timeEntryResponse `json:"timeEntries,omitempty"`
	Documents   []documentResponse  `json:"documents,omitempty"`
}

type timeEntryResponse struct {
	ID          string        `json:"id"`
	CaseID      string        `json:"caseId"`
	LawyerID    string        `json:"lawyerId"`
	Hours       float64       `json:"hours"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	Case        *caseResponse `json:"case,omitempty"`
	Lawyer      *userResponse `json:"lawyer,omitempty"`
}

type documentResponse struct {
	ID          string        `json:"id"`
	CaseID      string        `json:"caseId"`
	LawyerID    string        `json:"lawyerId"`
	FileName    string        `json:"fileName"`
	FileURL     string        `json:"fileUrl"`
	FileSize    int64         `json:"fileSize"`
	MimeType    string        `json:"mimeType"`
	Description *string       `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	Case        *caseResponse `json:"case,omitempty"`
	Lawyer      *userResponse `json:"lawyer,omitempty"`
}

type authResponse struct {
	ports.TokenPair
	User userResponse `json:"user"`
}

type paginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type messageResponse struct {
	Message string `json:"message"`
}
