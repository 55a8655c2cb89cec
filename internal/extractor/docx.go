package extractor

import (
	"strings"

	"github.com/nguyenthenguyen/docx"

	"document-qa/internal/models"
)

func extractDOCX(filePath string) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer r.Close()

	doc := r.Editable()
	paragraphs := docxParagraphs(doc.GetContent())

	var chunks []models.Chunk
	for i, para := range paragraphs {
		clean := normalizeWhitespace(para)
		if len(clean) <= minParagraphLen || isBoilerplate(clean) {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Text: clean,
			Page: i + 1, // DOCX has no pages; paragraph index stands in
			Type: models.ChunkDocxParagraph,
		})
	}
	return chunks, nil
}

// docxParagraphs pulls the text runs out of the raw document.xml, one
// string per <w:p> paragraph element.
func docxParagraphs(content string) []string {
	var paragraphs []string
	for _, block := range strings.Split(content, "<w:p")[1:] {
		// guard against <w:pPr>, <w:pgSz> and friends
		if block == "" || (block[0] != '>' && block[0] != ' ') {
			continue
		}
		if end := strings.Index(block, "</w:p>"); end >= 0 {
			block = block[:end]
		}
		text := extractTextRuns(block, "<w:t")
		if strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs
}

// extractTextRuns collects the contents of every <tag ...>...</tag> text
// run in the XML fragment. The open tag may carry attributes.
func extractTextRuns(xmlContent, openTag string) string {
	closeTag := "</" + openTag[1:] + ">"
	var text strings.Builder
	parts := strings.Split(xmlContent, openTag)
	for i, part := range parts {
		if i == 0 || part == "" {
			continue
		}
		// a real text run continues with '>' or an attribute list;
		// anything else is a different tag sharing the prefix
		if part[0] != '>' && part[0] != ' ' {
			continue
		}
		// skip past the end of the open tag, attributes included
		gt := strings.Index(part, ">")
		if gt < 0 {
			continue
		}
		part = part[gt+1:]
		if endIdx := strings.Index(part, closeTag); endIdx >= 0 {
			text.WriteString(xmlUnescape(part[:endIdx]) + " ")
		}
	}
	return text.String()
}

var xmlReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func xmlUnescape(s string) string { return xmlReplacer.Replace(s) }
