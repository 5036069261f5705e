package ports

import (
	"context"
	"io"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

// UploadDocumentInput is a file received from the transport layer. Size and
// MimeType are what the client declared; Content is read once.
type UploadDocumentInput struct {
	FileName    string
	MimeType    string
	Size        int64
	Content     io.Reader
	Description *string
}

type DocumentService interface {
	Upload(ctx context.Context, actor domain.Actor, caseID string, in UploadDocumentInput) (domain.Document, error)
	List(ctx context.Context, actor domain.Actor, caseID string, spec query.Spec) (Page[domain.Document], error)
	Get(ctx context.Context, actor domain.Actor, caseID, id string) (domain.Document, error)
	// Open returns the document and a reader over its stored bytes. The
	// caller closes the reader.
	Open(ctx context.Context, actor domain.Actor, id string) (domain.Document, io.ReadCloser, error)
	Delete(ctx context.Context, actor domain.Actor, caseID, id string) (domain.Document, error)
}
