package domain

// FileUpload is an in-memory PDF received from the user.
// Ingestion never reads the filesystem; callers hand over raw bytes.
type FileUpload struct {
	// Filename is the original name of the uploaded file.
	Filename string

	// Content is the raw PDF bytes.
	Content []byte
}

// DocumentMetadata describes a processed PDF.
// Every field is always populated: extraction failures fall back to
// defaults rather than leaving fields empty or failing the document.
type DocumentMetadata struct {
	// Filename is the original upload name.
	Filename string

	// Title is the PDF title, or the filename when the PDF has none.
	Title string

	// Author is the PDF author, or "Unknown".
	Author string

	// Subject is the PDF subject, if any.
	Subject string

	// Creator is the application that created the original document.
	Creator string

	// Producer is the application that produced the PDF.
	Producer string

	// CreationDate is the raw PDF creation date string, if any.
	CreationDate string

	// ModificationDate is the raw PDF modification date string, if any.
	ModificationDate string

	// PageCount is the number of pages.
	PageCount int

	// FileHash is the MD5 hex digest of the raw content.
	// Always set, even when the rest of the metadata could not be read.
	FileHash string
}

// Document is a validated PDF with its extracted text.
type Document struct {
	// Filename is the original upload name.
	Filename string

	// Content is the raw PDF bytes.
	Content []byte

	// Metadata describes the document.
	Metadata DocumentMetadata

	// Text is the full extracted text before chunking.
	Text string
}

// SegmentMetadata carries provenance for a single segment.
// It snapshots the parent document's metadata at chunking time so
// retrieval hits can always be attributed without a second lookup.
type SegmentMetadata struct {
	DocumentMetadata

	// SourceFile is the filename of the parent document.
	SourceFile string

	// ChunkIndex is the ordinal position within the parent document.
	// Indices are unique and strictly increasing per document.
	ChunkIndex int

	// TotalChunks is the number of segments the parent produced.
	TotalChunks int
}

// Segment is an indexable unit of a document.
type Segment struct {
	// ID is the unique identifier for the segment.
	ID string

	// Content is the segment text.
	Content string

	// Metadata carries the provenance snapshot.
	Metadata SegmentMetadata
}

// ProcessResult is the outcome of ingesting a single file.
type ProcessResult struct {
	// Filename is the original upload name.
	Filename string

	// Metadata describes the processed document.
	Metadata DocumentMetadata

	// FullText is the complete extracted text.
	FullText string

	// Segments are the chunks produced from the text.
	Segments []Segment

	// NumChunks is len(Segments).
	NumChunks int

	// TextLength is len(FullText) in bytes.
	TextLength int
}

// FileSummary is the per-file line item reported after a batch.
type FileSummary struct {
	// Filename is the original upload name.
	Filename string

	// Chunks is the number of segments produced.
	Chunks int

	// TextLength is the extracted text size in bytes.
	TextLength int

	// Pages is the page count from the PDF metadata.
	Pages int
}

// BatchResult aggregates the outcome of a multi-file ingest.
// TotalChunks always equals the sum of per-file chunk counts.
type BatchResult struct {
	// TotalFiles is the number of files successfully processed.
	TotalFiles int

	// TotalChunks is the number of segments produced across all files.
	TotalChunks int

	// TotalTextLength is the combined extracted text size in bytes.
	TotalTextLength int

	// FilesProcessed lists the filenames that made it through.
	FilesProcessed []string

	// Results holds the per-file detail.
	Results []ProcessResult
}

// ScoredSegment is a retrieval hit with its similarity scores.
type ScoredSegment struct {
	// Content is the segment text.
	Content string

	// Metadata is the stored provenance for the segment.
	Metadata map[string]any

	// Distance is the raw squared L2 distance from the query vector.
	Distance float64

	// Relevance is the normalised score in (0, 1], computed as
	// 1/(1+Distance). Lower distance always means higher relevance.
	Relevance float64
}

// SourceFile returns the segment's source filename from stored
// metadata, or "" when the segment carries none.
func (s ScoredSegment) SourceFile() string {
	if v, ok := s.Metadata["source_file"].(string); ok {
		return v
	}
	return ""
}
