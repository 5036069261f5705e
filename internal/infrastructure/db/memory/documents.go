package memory

import (
	"context"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

// DocumentRepository is the Documents collection of a Store. It only holds
// metadata; file bytes live behind the locator in FileURL.
type DocumentRepository struct{ s *Store }

func (r *DocumentRepository) Create(ctx context.Context, d domain.Document, guard ports.CaseGuard) (domain.Document, error) {
	if err := begin(ctx); err != nil {
		return domain.Document{}, err
	}
	if d.FileSize < 0 {
		return domain.Document{}, domain.Invalidf("file size must not be negative")
	}

	unlock := r.s.acquire(documentsTable, usersTable|casesTable)
	defer unlock()

	parent, err := r.s.requireCase(d.CaseID)
	if err != nil {
		return domain.Document{}, err
	}
	if guard != nil {
		if err := guard(parent); err != nil {
			return domain.Document{}, err
		}
	}
	if err := r.s.requireUser(d.LawyerID); err != nil {
		return domain.Document{}, err
	}
	d = cloneDocument(d)
	d.ID = r.s.newID()
	d.CreatedAt = r.s.now()
	r.s.documents.insert(d.ID, d)
	return cloneDocument(d), nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string, inc domain.Include) (domain.Document, error) {
	if err := begin(ctx); err != nil {
		return domain.Document{}, err
	}
	unlock := r.s.acquire(0, documentsTable|childLocks(inc))
	defer unlock()

	d, ok := r.s.documents.get(id)
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	d.Case, d.Lawyer = r.s.parentAndLawyer(d.CaseID, d.LawyerID, inc)
	return d, nil
}

func (r *DocumentRepository) FindMany(ctx context.Context, spec query.Spec, inc domain.Include) ([]domain.Document, error) {
	if err := begin(ctx); err != nil {
		return nil, err
	}
	unlock := r.s.acquire(0, documentsTable|childLocks(inc))
	defer unlock()

	rows := r.s.documents.find(spec)
	for i := range rows {
		rows[i].Case, rows[i].Lawyer = r.s.parentAndLawyer(rows[i].CaseID, rows[i].LawyerID, inc)
	}
	return rows, nil
}

func (r *DocumentRepository) Count(ctx context.Context, spec query.Spec) (int, error) {
	if err := begin(ctx); err != nil {
		return 0, err
	}
	unlock := r.s.acquire(0, documentsTable)
	defer unlock()
	return r.s.documents.count(spec), nil
}

func (r *DocumentRepository) Update(ctx context.Context, id string, patch domain.DocumentPatch, guard ports.ChildGuard[domain.Document]) (domain.Document, error) {
	if err := begin(ctx); err != nil {
		return domain.Document{}, err
	}
	unlock := r.s.acquire(documentsTable, usersTable|casesTable)
	defer unlock()

	d, ok := r.s.documents.get(id)
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	parent, err := r.s.requireCase(d.CaseID)
	if err != nil {
		return domain.Document{}, err
	}
	if guard != nil {
		if err := guard(d, parent); err != nil {
			return domain.Document{}, err
		}
	}
	if patch.CaseID != nil && *patch.CaseID != d.CaseID {
		target, err := r.s.requireCase(*patch.CaseID)
		if err != nil {
			return domain.Document{}, err
		}
		if guard != nil {
			if err := guard(d, target); err != nil {
				return domain.Document{}, err
			}
		}
		d.CaseID = target.ID
	}
	if patch.LawyerID != nil {
		if err := r.s.requireUser(*patch.LawyerID); err != nil {
			return domain.Document{}, err
		}
		d.LawyerID = *patch.LawyerID
	}
	if patch.FileSize != nil {
		if *patch.FileSize < 0 {
			return domain.Document{}, domain.Invalidf("file size must not be negative")
		}
		d.FileSize = *patch.FileSize
	}
	if patch.FileName != nil {
		d.FileName = *patch.FileName
	}
	if patch.FileURL != nil {
		d.FileURL = *patch.FileURL
	}
	if patch.MimeType != nil {
		d.MimeType = *patch.MimeType
	}
	if patch.Description != nil {
		d.Description = cloneString(patch.Description)
	}
	r.s.documents.replace(id, d)
	return cloneDocument(d), nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string, guard ports.ChildGuard[domain.Document]) (domain.Document, error) {
	if err := begin(ctx); err != nil {
		return domain.Document{}, err
	}
	unlock := r.s.acquire(documentsTable, casesTable)
	defer unlock()

	d, ok := r.s.documents.get(id)
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	if guard != nil {
		parent, err := r.s.requireCase(d.CaseID)
		if err != nil {
			return domain.Document{}, err
		}
		if err := guard(d, parent); err != nil {
			return domain.Document{}, err
		}
	}
	r.s.documents.remove(id)
	return d, nil
}
