package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/policy"
	"github.com/legaltech/case-management/internal/core/ports"
	"github.com/legaltech/case-management/internal/core/query"
)

// DocumentConfig bounds what Upload accepts.
type DocumentConfig struct {
	MaxBytes         int64
	AllowedMimeTypes []string
}

type DocumentService struct {
	cases   ports.CaseRepository
	docs    ports.DocumentRepository
	storage ports.FileStorage
	cleaner ports.FileCleaner
	cfg     DocumentConfig
	logger  zerolog.Logger
}

func NewDocumentService(
	cases ports.CaseRepository,
	docs ports.DocumentRepository,
	storage ports.FileStorage,
	cleaner ports.FileCleaner,
	cfg DocumentConfig,
	logger zerolog.Logger,
) *DocumentService {
	return &DocumentService{cases: cases, docs: docs, storage: storage, cleaner: cleaner, cfg: cfg, logger: logger}
}

var _ ports.DocumentService = (*DocumentService)(nil)

var errTooLarge = errors.New("upload exceeds size limit")

// Upload validates the file, stores its bytes under the case prefix and
// records the document. When the record cannot be created the stored file
// is handed to the cleaner.
func (s *DocumentService) Upload(ctx context.Context, actor domain.Actor, caseID string, in ports.UploadDocumentInput) (domain.Document, error) {
	if _, err := parentCase(ctx, s.cases, actor, policy.Create, policy.KindDocument, caseID); err != nil {
		return domain.Document{}, err
	}
	mimeType, err := s.validate(in)
	if err != nil {
		return domain.Document{}, err
	}

	body := &limitedReader{r: in.Content, max: s.cfg.MaxBytes}
	locator, err := s.storage.Store(ctx, body, ports.FileMeta{
		Prefix:   "cases/" + caseID,
		FileName: in.FileName,
		MimeType: mimeType,
		Size:     in.Size,
	})
	if err != nil {
		if body.exceeded || errors.Is(err, errTooLarge) {
			return domain.Document{}, s.tooLarge()
		}
		return domain.Document{}, fmt.Errorf("storing document: %w", err)
	}
	if body.exceeded {
		s.cleaner.Schedule(locator)
		return domain.Document{}, s.tooLarge()
	}

	created, err := s.docs.Create(ctx, domain.Document{
		CaseID:      caseID,
		LawyerID:    actor.ID,
		FileName:    in.FileName,
		FileURL:     locator,
		FileSize:    body.n,
		MimeType:    mimeType,
		Description: in.Description,
	}, func(parent domain.Case) error {
		return policy.Check(actor, policy.Create, policy.ForChild(policy.KindDocument, parent))
	})
	if err != nil {
		s.cleaner.Schedule(locator)
		return domain.Document{}, err
	}
	s.logger.Info().Str("document_id", created.ID).Str("case_id", created.CaseID).Int64("size", created.FileSize).Msg("document uploaded")
	return s.withRelations(ctx, created), nil
}

// List returns the documents of caseID, newest first unless spec orders
// otherwise.
func (s *DocumentService) List(ctx context.Context, actor domain.Actor, caseID string, spec query.Spec) (ports.Page[domain.Document], error) {
	if _, err := parentCase(ctx, s.cases, actor, policy.Read, policy.KindDocument, caseID); err != nil {
		return ports.Page[domain.Document]{}, err
	}
	spec, err := spec.WithDefaultOrder("createdAt", query.Desc).And(query.Eq("caseId", caseID))
	if err != nil {
		return ports.Page[domain.Document]{}, err
	}
	return page(ctx, spec, domain.ChildRelations, s.docs.FindMany, s.docs.Count)
}

func (s *DocumentService) Get(ctx context.Context, actor domain.Actor, caseID, id string) (domain.Document, error) {
	d, err := s.docs.FindByID(ctx, id, domain.ChildRelations)
	if err != nil {
		return domain.Document{}, err
	}
	if err := belongsTo(policy.KindDocument, d.CaseID, caseID); err != nil {
		return domain.Document{}, err
	}
	if _, err := parentCase(ctx, s.cases, actor, policy.Read, policy.KindDocument, caseID); err != nil {
		return domain.Document{}, err
	}
	return d, nil
}

// Open resolves a document by id alone and opens its stored bytes.
func (s *DocumentService) Open(ctx context.Context, actor domain.Actor, id string) (domain.Document, io.ReadCloser, error) {
	d, err := s.docs.FindByID(ctx, id, domain.Include{})
	if err != nil {
		return domain.Document{}, nil, err
	}
	if _, err := parentCase(ctx, s.cases, actor, policy.Read, policy.KindDocument, d.CaseID); err != nil {
		return domain.Document{}, nil, err
	}
	rc, err := s.storage.Open(ctx, d.FileURL)
	if err != nil {
		return domain.Document{}, nil, err
	}
	return d, rc, nil
}

// Delete removes the record, then schedules removal of the stored file.
func (s *DocumentService) Delete(ctx context.Context, actor domain.Actor, caseID, id string) (domain.Document, error) {
	deleted, err := s.docs.Delete(ctx, id, func(d domain.Document, parent domain.Case) error {
		if err := belongsTo(policy.KindDocument, d.CaseID, caseID); err != nil {
			return err
		}
		return policy.Check(actor, policy.Delete, policy.ForChild(policy.KindDocument, parent))
	})
	if err != nil {
		return domain.Document{}, err
	}
	s.cleaner.Schedule(deleted.FileURL)
	s.logger.Info().Str("document_id", deleted.ID).Str("case_id", deleted.CaseID).Msg("document deleted")
	return deleted, nil
}

// validate checks the declared file against the allow-list and size limit
// and returns the normalized MIME type.
func (s *DocumentService) validate(in ports.UploadDocumentInput) (string, error) {
	if in.Content == nil {
		return "", domain.Invalidf("file is required")
	}
	if err := required("fileName", in.FileName); err != nil {
		return "", err
	}
	mimeType := strings.ToLower(strings.TrimSpace(in.MimeType))
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	if !slices.Contains(s.cfg.AllowedMimeTypes, mimeType) {
		return "", domain.Invalidf("file type %q is not allowed", in.MimeType)
	}
	if in.Size < 0 {
		return "", domain.Invalidf("file size must not be negative")
	}
	if s.cfg.MaxBytes > 0 && in.Size > s.cfg.MaxBytes {
		return "", s.tooLarge()
	}
	return mimeType, nil
}

func (s *DocumentService) tooLarge() error {
	return domain.Invalidf("file exceeds the maximum size of %d bytes", s.cfg.MaxBytes)
}

func (s *DocumentService) withRelations(ctx context.Context, d domain.Document) domain.Document {
	full, err := s.docs.FindByID(ctx, d.ID, domain.ChildRelations)
	if err != nil {
		s.logger.Warn().Err(err).Str("document_id", d.ID).Msg("could not load document relations")
		return d
	}
	return full
}

// limitedReader counts what it reads and fails once more than max bytes
// have come through. A max of zero disables the limit.
type limitedReader struct {
	r        io.Reader
	max      int64
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.max > 0 && l.n > l.max {
		l.exceeded = true
		return n, errTooLarge
	}
	return n, err
}
