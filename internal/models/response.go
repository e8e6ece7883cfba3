package models

import (
	"strings"
	"time"
)

type ResponseType string

const (
	ResponseString    ResponseType = "string"
	ResponseNumber    ResponseType = "number"
	ResponseDataframe ResponseType = "dataframe"
)

// Table is a query result in display form
type Table struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated,omitempty"`
}

// Response is what a datalake returns for one question
type Response struct {
	Type  ResponseType `json:"type"`
	Value string       `json:"value,omitempty"`
	Table *Table       `json:"table,omitempty"`
	Query string       `json:"query,omitempty"`
}

// Text renders the response as plain text, tables as pipe-separated lines
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	if r.Type != ResponseDataframe || r.Table == nil {
		return r.Value
	}

	var b strings.Builder
	b.WriteString(strings.Join(r.Table.Columns, " | "))
	for _, row := range r.Table.Rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(row, " | "))
	}
	if r.Table.Truncated {
		b.WriteString("\n...")
	}
	return b.String()
}

// Interaction is a recorded question/answer exchange
type Interaction struct {
	ID           string       `json:"id"`
	Folder       string       `json:"folder"`
	Category     Category     `json:"category"`
	Question     string       `json:"question"`
	ResponseType ResponseType `json:"response_type,omitempty"`
	Answer       string       `json:"answer,omitempty"`
	Error        string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
