package lake

import (
	"fmt"
	"strings"

	"github.com/xaenox/datalake-chat/internal/models"
)

var duckTypes = map[models.ColumnKind]string{
	models.KindInteger: "BIGINT",
	models.KindFloat:   "DOUBLE",
	models.KindText:    "VARCHAR",
}

const replyInstructions = `Reply with a single JSON object and nothing else, using one of these shapes:
{"type": "sql", "sql": "<one DuckDB SELECT statement that answers the question>"}
{"type": "text", "answer": "<short plain-text answer>"}

Rules:
- Use "sql" whenever the answer depends on the data.
- Use "text" only when the question cannot be answered from these tables.
- Only SELECT or WITH queries; never modify data or read files.
- Quote table and column names with double quotes.
- When the answer is a single value, return exactly one row with one column.`

// buildSystemPrompt describes every table with its columns and first rows
func buildSystemPrompt(tables []table, sampleRows int) string {
	var b strings.Builder
	b.WriteString("You are a data analyst. Answer questions about the tables below by writing DuckDB SQL.\n")

	for _, t := range tables {
		ds := t.dataset
		fmt.Fprintf(&b, "\nTable %s (from file %s, %d rows)\n", quoteIdent(t.name), ds.Name, len(ds.Rows))

		cols := make([]string, len(ds.Columns))
		for i, c := range ds.Columns {
			cols[i] = quoteIdent(c.Name) + " " + duckTypes[c.Kind]
		}
		b.WriteString("Columns: " + strings.Join(cols, ", ") + "\n")

		n := min(sampleRows, len(ds.Rows))
		if n > 0 {
			b.WriteString("First rows:\n")
			b.WriteString(strings.Join(ds.ColumnNames(), " | ") + "\n")
			for _, row := range ds.Rows[:n] {
				b.WriteString(strings.Join(row, " | ") + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(replyInstructions)
	return b.String()
}

func correctionPrompt(err error) string {
	return fmt.Sprintf("The previous reply could not be used: %v\nFix it and reply with the corrected JSON object only.", err)
}
