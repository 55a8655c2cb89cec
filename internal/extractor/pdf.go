package extractor

import (
	"math"
	"os"
	"sort"

	"github.com/ledongthuc/pdf"

	"document-qa/internal/models"
)

// Horizontal gap (in PDF points) between positioned text runs that starts
// a new table cell.
const cellGap = 12.0

func extractPDF(filePath string) (chunks []models.Chunk, err error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}

	// The pdf package panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			chunks = nil
			err = &ExtractionError{Path: filePath, Err: &panicError{r}}
		}
	}()

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &ExtractionError{Path: filePath, Err: err}
		}
		chunks = append(chunks, paragraphChunks(pageText, i, models.ChunkParagraph, minParagraphLen)...)

		for _, table := range pageTables(page.Content()) {
			chunks = append(chunks, renderTableRows(table, i)...)
		}
	}
	return chunks, nil
}

type panicError struct{ v any }

func (e *panicError) Error() string { return "pdf parser panic" }

// pageTables recovers tabular rows from positioned page text. Text runs
// are grouped into lines by Y coordinate, lines are split into cells on
// wide horizontal gaps, and consecutive lines with the same cell count
// (at least two cells) form a table.
func pageTables(content pdf.Content) [][][]string {
	byLine := make(map[int][]pdf.Text)
	for _, t := range content.Text {
		y := int(math.Round(t.Y))
		byLine[y] = append(byLine[y], t)
	}

	ys := make([]int, 0, len(byLine))
	for y := range byLine {
		ys = append(ys, y)
	}
	// PDF Y grows upward, so descending Y is top-to-bottom reading order.
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var tables [][][]string
	var current [][]string
	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, y := range ys {
		cells := lineCells(byLine[y])
		if len(cells) < 2 {
			flush()
			continue
		}
		if len(current) > 0 && len(current[len(current)-1]) != len(cells) {
			flush()
		}
		current = append(current, cells)
	}
	flush()
	return tables
}

// lineCells orders a line's text runs by X and merges runs separated by
// less than cellGap into single cells.
func lineCells(texts []pdf.Text) []string {
	sort.Slice(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var cells []string
	var cell string
	var prevEnd float64
	for i, t := range texts {
		if i > 0 && t.X-prevEnd > cellGap {
			if c := normalizeWhitespace(cell); c != "" {
				cells = append(cells, c)
			}
			cell = ""
		}
		cell += t.S
		prevEnd = t.X + t.W
	}
	if c := normalizeWhitespace(cell); c != "" {
		cells = append(cells, c)
	}
	return cells
}
