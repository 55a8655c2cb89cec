package extractor

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"document-qa/internal/models"
)

// textChunks splits raw text into blank-line-delimited chunks of the
// given type, keeping fragments longer than minFragmentLen.
func textChunks(content string, typ models.ChunkType) []models.Chunk {
	return paragraphChunks(content, 1, typ, minFragmentLen)
}

// fallbackChunks is the last-resort extraction path: naive paragraph
// splitting over the raw file bytes. It never fails; unreadable files
// simply yield no chunks.
func fallbackChunks(filePath string) []models.Chunk {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	return textChunks(string(data), models.ChunkEmailFallback)
}

// markdownText renders a markdown document down to its plain text,
// preserving paragraph boundaries as blank lines.
func markdownText(src []byte) string {
	root := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindText:
			if entering {
				t := n.(*ast.Text)
				sb.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			}
		case ast.KindParagraph, ast.KindHeading, ast.KindListItem:
			if !entering {
				sb.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
