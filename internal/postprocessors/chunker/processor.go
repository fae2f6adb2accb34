// Package chunker provides a boundary-preserving text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// defaultSeparators is the boundary preference order: paragraph breaks
// first, then line breaks, then word breaks, then raw characters.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Processor splits document text into overlapping chunks, preferring
// natural boundaries over hard cuts. It implements the PostProcessor
// interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators sets the boundary preference order. The last entry
// should be "" so oversized pieces can always be cut.
func WithSeparators(separators []string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into segments.
// Input segments are ignored; this processor creates new segments from
// document text. Each segment snapshots the document metadata so hits
// remain attributable after retrieval.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Segment) ([]domain.Segment, error) {
	if doc.Text == "" {
		// Empty text produces no segments
		return nil, nil
	}

	pieces := p.splitText(doc.Text, p.separators)

	segments := make([]domain.Segment, 0, len(pieces))
	for i, piece := range pieces {
		segments = append(segments, domain.Segment{
			ID:      uuid.New().String(),
			Content: piece,
			Metadata: domain.SegmentMetadata{
				DocumentMetadata: doc.Metadata,
				SourceFile:       doc.Filename,
				ChunkIndex:       i,
				TotalChunks:      len(pieces),
			},
		})
	}

	return segments, nil
}

// SplitText exposes the raw splitting for callers that need pieces
// without segment envelopes.
func (p *Processor) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	return p.splitText(text, p.separators)
}

// splitText recursively splits on the best available separator, then
// merges the pieces back into chunks of at most chunkSize characters
// with the configured overlap carried between neighbours.
func (p *Processor) splitText(text string, separators []string) []string {
	sep, rest := pickSeparator(text, separators)
	if sep == "" {
		return p.windowSplit(text)
	}

	splits := strings.Split(text, sep)

	var chunks []string
	var fitting []string
	for _, s := range splits {
		if s == "" {
			continue
		}
		if len(s) <= p.chunkSize {
			fitting = append(fitting, s)
			continue
		}
		// Oversized piece: flush what fits, then descend a level.
		if len(fitting) > 0 {
			chunks = append(chunks, p.merge(fitting, sep)...)
			fitting = nil
		}
		chunks = append(chunks, p.splitText(s, rest)...)
	}
	if len(fitting) > 0 {
		chunks = append(chunks, p.merge(fitting, sep)...)
	}

	return chunks
}

// pickSeparator returns the first separator present in the text and
// the lower-priority separators after it. The empty separator always
// matches.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, s := range separators {
		if s == "" {
			return "", nil
		}
		if strings.Contains(text, s) {
			return s, separators[i+1:]
		}
	}
	return "", nil
}

// merge packs consecutive pieces into chunks of at most chunkSize,
// retaining at least overlap characters of tail between neighbours.
func (p *Processor) merge(pieces []string, sep string) []string {
	sepLen := len(sep)

	var chunks []string
	var window []string
	total := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(window, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		added := len(piece)
		if len(window) > 0 {
			added += sepLen
		}

		if total+added > p.chunkSize && len(window) > 0 {
			flush()
			// Drop from the front until the retained tail fits the
			// overlap limit alongside the incoming piece.
			for total > p.overlap || (total+added > p.chunkSize && total > 0) {
				total -= len(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
				added = len(piece)
				if len(window) > 0 {
					added += sepLen
				}
			}
		}

		window = append(window, piece)
		total += added
	}

	flush()
	return chunks
}

// windowSplit cuts raw text into fixed windows stepping by
// chunkSize-overlap, for text with no usable boundaries.
func (p *Processor) windowSplit(text string) []string {
	step := p.chunkSize - p.overlap
	if step <= 0 {
		step = p.chunkSize
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + p.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
