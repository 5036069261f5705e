package memory

import (
	"context"
	"fmt"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

// Demo credentials created by Seed.
const (
	DemoAdminEmail     = "admin@legaltech.com"
	DemoAdminPassword  = "admin123"
	DemoLawyerEmail    = "attorney@legaltech.com"
	DemoLawyerPassword = "attorney123"
)

// Seed fills an empty store with an admin, a lawyer, one open case, a 2.5
// hour time entry and a contract document record. It goes through the
// repositories so every invariant is checked as for any other write.
func Seed(ctx context.Context, s *Store, hasher ports.PasswordHasher) error {
	users := s.Users()

	adminHash, err := hasher.Hash(DemoAdminPassword)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}
	if _, err := users.Create(ctx, domain.User{
		FullName:     "Admin User",
		Email:        DemoAdminEmail,
		PasswordHash: adminHash,
		Role:         domain.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("seed: admin: %w", err)
	}

	lawyerHash, err := hasher.Hash(DemoLawyerPassword)
	if err != nil {
		return fmt.Errorf("seed: hash lawyer password: %w", err)
	}
	lawyer, err := users.Create(ctx, domain.User{
		FullName:     "Attorney User",
		Email:        DemoLawyerEmail,
		PasswordHash: lawyerHash,
		Role:         domain.RoleLawyer,
	})
	if err != nil {
		return fmt.Errorf("seed: lawyer: %w", err)
	}

	c, err := s.Cases().Create(ctx, domain.Case{
		LawyerID:    lawyer.ID,
		ClientName:  "John Doe",
		ClientEmail: "john@example.com",
		Status:      domain.StatusOpen,
	})
	if err != nil {
		return fmt.Errorf("seed: case: %w", err)
	}

	if _, err := s.TimeEntries().Create(ctx, domain.TimeEntry{
		CaseID:      c.ID,
		LawyerID:    lawyer.ID,
		Hours:       2.5,
		Description: "Initial client consultation",
	}, nil); err != nil {
		return fmt.Errorf("seed: time entry: %w", err)
	}

	description := "Client engagement contract"
	if _, err := s.Documents().Create(ctx, domain.Document{
		CaseID:      c.ID,
		LawyerID:    lawyer.ID,
		FileName:    "contract.pdf",
		FileURL:     "https://storage.example.com/contract.pdf",
		FileSize:    1024,
		MimeType:    "application/pdf",
		Description: &description,
	}, nil); err != nil {
		return fmt.Errorf("seed: document: %w", err)
	}
	return nil
}
