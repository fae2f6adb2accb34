package driving

import (
	"context"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// IngestService processes uploaded PDF batches into segments.
type IngestService interface {
	// ProcessFile validates, extracts and chunks a single upload.
	ProcessFile(ctx context.Context, file domain.FileUpload) (*domain.ProcessResult, error)

	// ProcessBatch processes several uploads. A batch over the file
	// limit is rejected whole; individually invalid files are skipped
	// and the rest of the batch continues.
	ProcessBatch(ctx context.Context, files []domain.FileUpload) (*domain.BatchResult, error)

	// TextPreview returns the first n characters of a document's text
	// with an ellipsis when truncated.
	TextPreview(result *domain.ProcessResult, n int) string
}
