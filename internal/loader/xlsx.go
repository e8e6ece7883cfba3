package loader

import (
	"fmt"

	"github.com/xaenox/datalake-chat/internal/models"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook; its first row is the header
func ParseXLSX(path string) (*models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoColumns
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	// Blank rows come back as empty slices
	nonEmpty := rows[:0]
	width := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		nonEmpty = append(nonEmpty, row)
		if len(row) > width {
			width = len(row)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, ErrNoColumns
	}

	// Cells to the right of the header get unnamed columns instead of failing the file
	header := make([]string, width)
	copy(header, nonEmpty[0])

	return buildDataset(header, nonEmpty[1:])
}
