package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"document-qa/internal/models"
)

// Minimum lengths a unit of text must exceed to become a chunk.
const (
	minParagraphLen = 50
	minFragmentLen  = 20
)

// ErrUnsupportedFormat is returned when the file extension is not one of
// the supported document formats.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError wraps an underlying parser failure for one file.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// boilerplate substrings that mark a paragraph as header/footer noise.
// Matched case-insensitively against the whole unit.
var boilerplate = []string{
	"Bajaj Allianz", "www.bajajallianz.com", "Toll Free",
	"E-mail", "Reg. No.:", "UIN-", "Page", "GLOBAL HEALTH CARE",
	"Sl. No.", "LIST I", "LIST II",
}

// Extract converts a document file into an ordered chunk sequence,
// dispatching on the file extension.
func Extract(filePath string) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".eml":
		return extractEML(filePath)
	case ".msg":
		return extractMSG(filePath)
	case ".xlsx":
		return extractXLSX(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// SupportedExt reports whether ext (including the dot) names a format
// Extract can handle.
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".eml", ".msg", ".xlsx":
		return true
	}
	return false
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range boilerplate {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses all whitespace runs to single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitParagraphs splits text on blank-line boundaries.
func splitParagraphs(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
}

// paragraphChunks turns blank-line-delimited text into chunks of the given
// type, keeping only units longer than minLen. Paragraph-type chunks are
// additionally screened against the boilerplate denylist.
func paragraphChunks(text string, page int, typ models.ChunkType, minLen int) []models.Chunk {
	var chunks []models.Chunk
	for _, para := range splitParagraphs(text) {
		clean := normalizeWhitespace(para)
		if len(clean) <= minLen {
			continue
		}
		if (typ == models.ChunkParagraph || typ == models.ChunkDocxParagraph) && isBoilerplate(clean) {
			continue
		}
		chunks = append(chunks, models.Chunk{Text: clean, Page: page, Type: typ})
	}
	return chunks
}

// label-like header names whose cells read better without the header prefix.
var labelHeaders = map[string]bool{
	"feature":  true,
	"benefit":  true,
	"coverage": true,
}

// renderTableRows renders a table (row 0 = headers) into one chunk per
// data row. Cells that are empty, placeholders, bare index values, or
// purely numeric are skipped; the rest render as "value. " for label-like
// headers or "header: value. " otherwise.
func renderTableRows(table [][]string, page int) []models.Chunk {
	if len(table) < 2 {
		return nil
	}
	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var chunks []models.Chunk
	for _, row := range table[1:] {
		var rowText strings.Builder
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" || i >= len(headers) || headers[i] == "" {
				continue
			}
			lower := strings.ToLower(cell)
			if lower == "not mentioned" || lower == "sl. no." || isDigits(cell) {
				continue
			}
			if labelHeaders[strings.ToLower(headers[i])] {
				rowText.WriteString(cell + ". ")
			} else {
				rowText.WriteString(headers[i] + ": " + cell + ". ")
			}
		}
		text := strings.TrimSpace(rowText.String())
		if len(text) > minFragmentLen {
			chunks = append(chunks, models.Chunk{Text: text, Page: page, Type: models.ChunkTableRow})
		}
	}
	return chunks
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
