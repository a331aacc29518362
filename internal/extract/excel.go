package extract

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelRows returns all rows of the first sheet of an xlsx workbook.
// The first row is the header row. Tabular ingestion turns each following
// row into its own document, so rows are returned unjoined.
func ExcelRows(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
