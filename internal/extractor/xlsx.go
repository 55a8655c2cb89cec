package extractor

import (
	"github.com/xuri/excelize/v2"

	"document-qa/internal/models"
)

// extractXLSX treats every sheet as a table: row 0 holds the headers and
// each later row renders through the table-row rules. Sheets are numbered
// 1-based in place of pages.
func extractXLSX(filePath string) ([]models.Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer f.Close()

	var chunks []models.Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		chunks = append(chunks, renderTableRows(rows, sheetNum+1)...)
	}
	return chunks, nil
}
