package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the file family a dataset was loaded from
type Category string

const (
	CategoryCSV   Category = "csv"
	CategoryExcel Category = "excel"
)

// ParseCategory accepts the UI spellings ("CSV", "Excel") as well as the canonical ones
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CategoryCSV, nil
	case "excel", "xlsx":
		return CategoryExcel, nil
	}
	return "", fmt.Errorf("unknown file type: %q", s)
}

// Label is the user-facing name of the category
func (c Category) Label() string {
	switch c {
	case CategoryCSV:
		return "CSV"
	case CategoryExcel:
		return "Excel"
	}
	return string(c)
}

type ColumnKind string

const (
	KindInteger ColumnKind = "integer"
	KindFloat   ColumnKind = "float"
	KindText    ColumnKind = "text"
)

type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Dataset is one table parsed from a single file. It is not modified after load.
type Dataset struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Category Category   `json:"category"`
	Columns  []Column   `json:"columns"`
	Rows     [][]string `json:"rows"`
	ModTime  time.Time  `json:"mod_time"`
	Size     int64      `json:"size"`
}

// ColumnNames returns the header in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Notice is the per-file line shown to the user after a load
type Notice struct {
	File    string `json:"file"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
