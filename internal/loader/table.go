package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/datalake-chat/internal/models"
)

var ErrNoColumns = errors.New("no columns to parse from file")

// buildDataset turns a header plus raw records into a dataset. Records longer than the
// header are rejected, shorter ones are padded with empty cells.
func buildDataset(header []string, records [][]string) (*models.Dataset, error) {
	if len(header) == 0 {
		return nil, ErrNoColumns
	}

	names := normalizeHeader(header)
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(names), i+2, len(rec))
		}
		row := make([]string, len(names))
		copy(row, rec)
		rows = append(rows, row)
	}

	columns := make([]models.Column, len(names))
	for i, name := range names {
		columns[i] = models.Column{Name: name, Kind: inferKind(rows, i)}
	}

	return &models.Dataset{
		Columns: columns,
		Rows:    rows,
	}, nil
}

// normalizeHeader names blank columns "Unnamed: i" and suffixes duplicates with ".1", ".2"
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for {
				seen[base]++
				name = fmt.Sprintf("%s.%d", base, seen[base])
				if _, taken := seen[name]; !taken {
					break
				}
			}
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func inferKind(rows [][]string, col int) models.ColumnKind {
	kind := models.KindInteger
	nonEmpty := 0
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		nonEmpty++
		if kind == models.KindInteger {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			kind = models.KindFloat
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return models.KindText
		}
	}
	if nonEmpty == 0 {
		return models.KindText
	}
	return kind
}
