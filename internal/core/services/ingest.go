package services

import (
	"context"
	"fmt"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns PDF uploads into indexable segments.
// Invalid files are skipped with a log line; only batch-level limits
// fail the whole operation.
type IngestService struct {
	processor driven.DocumentProcessor
	pipeline  driven.PostProcessorPipeline
	cfg       domain.PipelineConfig
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	processor driven.DocumentProcessor,
	pipeline driven.PostProcessorPipeline,
	cfg domain.PipelineConfig,
) *IngestService {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = domain.DefaultMaxFiles
	}
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = domain.DefaultMaxFileSizeMB
	}

	return &IngestService{
		processor: processor,
		pipeline:  pipeline,
		cfg:       cfg,
	}
}

// ProcessFile validates, extracts and chunks a single upload.
func (s *IngestService) ProcessFile(ctx context.Context, file domain.FileUpload) (*domain.ProcessResult, error) {
	if file.Filename == "" || len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if len(file.Content) > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d MB)",
			domain.ErrFileTooLarge, file.Filename, len(file.Content), s.cfg.MaxFileSizeMB)
	}

	if !s.processor.Validate(file.Content) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPDF, file.Filename)
	}

	metadata := s.processor.ExtractMetadata(file.Content, file.Filename)

	text, err := s.processor.ExtractText(ctx, file.Content)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", file.Filename, err)
	}

	doc := &domain.Document{
		Filename: file.Filename,
		Content:  file.Content,
		Metadata: metadata,
		Text:     text,
	}

	segments, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", file.Filename, err)
	}

	logger.Debug("processed %s: %d pages, %d chars, %d segments",
		file.Filename, metadata.PageCount, len(text), len(segments))

	return &domain.ProcessResult{
		Filename:   file.Filename,
		Metadata:   metadata,
		FullText:   text,
		Segments:   segments,
		NumChunks:  len(segments),
		TextLength: len(text),
	}, nil
}

// ProcessBatch processes several uploads. A batch over the file limit
// is rejected whole before any file is touched; individually invalid
// files are skipped and the rest continues.
func (s *IngestService) ProcessBatch(ctx context.Context, files []domain.FileUpload) (*domain.BatchResult, error) {
	logger.Section("Document Processing")

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", domain.ErrInvalidInput)
	}
	if len(files) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: %d files exceeds the limit of %d",
			domain.ErrTooManyFiles, len(files), s.cfg.MaxFiles)
	}

	batch := &domain.BatchResult{}
	for _, file := range files {
		result, err := s.ProcessFile(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping %s: %v", file.Filename, err)
			continue
		}

		batch.TotalFiles++
		batch.TotalChunks += result.NumChunks
		batch.TotalTextLength += result.TextLength
		batch.FilesProcessed = append(batch.FilesProcessed, result.Filename)
		batch.Results = append(batch.Results, *result)
	}

	logger.Debug("batch complete: %d/%d files, %d segments",
		batch.TotalFiles, len(files), batch.TotalChunks)

	return batch, nil
}

// TextPreview returns the first n characters of the document's text,
// with an ellipsis when truncated.
func (s *IngestService) TextPreview(result *domain.ProcessResult, n int) string {
	if result == nil || n <= 0 {
		return ""
	}
	if len(result.FullText) <= n {
		return result.FullText
	}
	return result.FullText[:n] + "..."
}
