// Package pdf extracts text and metadata from PDF uploads.
package pdf

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.DocumentProcessor = (*Normaliser)(nil)

// pdfSignature is the required magic prefix of a PDF file.
var pdfSignature = []byte("%PDF")

// columnGapThreshold is the horizontal distance, in PDF points, beyond
// which adjacent words on a row are treated as separate columns.
const columnGapThreshold = 18.0

// Normaliser validates PDFs and extracts their text and metadata.
// Extraction tries a layout-aware pass first so tabular regions keep
// their column structure, then falls back to plain text.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Validate reports whether the bytes are a readable PDF.
// The file must carry the %PDF signature and parse to at least one page.
func (n *Normaliser) Validate(content []byte) bool {
	if !bytes.HasPrefix(content, pdfSignature) {
		return false
	}
	reader, err := openReader(content)
	if err != nil {
		return false
	}
	return reader.NumPage() >= 1
}

// ExtractMetadata reads the PDF information dictionary.
// It never fails: unreadable fields keep their defaults, and the
// content hash is computed regardless.
func (n *Normaliser) ExtractMetadata(content []byte, filename string) domain.DocumentMetadata {
	sum := md5.Sum(content) //nolint:gosec // content fingerprint, not a security boundary
	meta := domain.DocumentMetadata{
		Filename: filename,
		Title:    filename,
		Author:   "Unknown",
		FileHash: hex.EncodeToString(sum[:]),
	}

	reader, err := openReader(content)
	if err != nil {
		logger.Warn("pdf metadata unavailable for %s: %v", filename, err)
		return meta
	}
	meta.PageCount = reader.NumPage()

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	if v := infoText(info, "Title"); v != "" {
		meta.Title = v
	}
	if v := infoText(info, "Author"); v != "" {
		meta.Author = v
	}
	meta.Subject = infoText(info, "Subject")
	meta.Creator = infoText(info, "Creator")
	meta.Producer = infoText(info, "Producer")
	meta.CreationDate = infoText(info, "CreationDate")
	meta.ModificationDate = infoText(info, "ModDate")

	return meta
}

// ExtractText pulls the full text from the PDF.
// Pages are extracted row by row with column detection; pages that
// resist the layout pass fall back to plain text extraction. A PDF
// that parses but yields nothing returns domain.ErrNoExtractableText.
func (n *Normaliser) ExtractText(ctx context.Context, content []byte) (string, error) {
	reader, err := openReader(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidPDF, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text := extractPageByRows(page)
		if text == "" {
			plain, err := page.GetPlainText(nil)
			if err != nil {
				logger.Debug("page %d: plain text extraction failed: %v", i, err)
				continue
			}
			text = strings.TrimSpace(plain)
		}
		if text == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	result := sb.String()
	if strings.TrimSpace(result) == "" {
		return "", domain.ErrNoExtractableText
	}
	return result, nil
}

// openReader parses the PDF from memory.
// The underlying parser panics on some malformed inputs, so the panic
// is converted to an error here.
func openReader(content []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

// extractPageByRows renders one page with rows top to bottom and words
// left to right. Wide horizontal gaps become tab stops so table columns
// stay distinguishable after chunking.
func extractPageByRows(page pdf.Page) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, row := range rows {
		words := make([]pdf.Text, len(row.Content))
		copy(words, row.Content)
		sort.Slice(words, func(i, j int) bool { return words[i].X < words[j].X })

		var line strings.Builder
		var prevEnd float64
		for i, w := range words {
			s := strings.TrimSpace(w.S)
			if s == "" {
				continue
			}
			if i > 0 {
				if w.X-prevEnd > columnGapThreshold {
					line.WriteByte('\t')
				} else if line.Len() > 0 {
					line.WriteByte(' ')
				}
			}
			line.WriteString(s)
			prevEnd = w.X + w.W
		}

		if line.Len() > 0 {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line.String())
		}
	}
	return strings.TrimSpace(sb.String())
}

// infoText reads one entry of the Info dictionary, tolerating the
// panics the parser raises on malformed values.
func infoText(info pdf.Value, key string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	v := info.Key(key)
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}
