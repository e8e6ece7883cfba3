package lake

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptyQuery         = errors.New("empty query")
	ErrMultipleStatements = errors.New("only a single statement is allowed")
	ErrNotReadOnly        = errors.New("only SELECT or WITH queries are allowed")
	ErrForbiddenFunction  = errors.New("query reads from the file system")
)

var (
	fileFunctionRe = regexp.MustCompile(`\b(read_csv|read_csv_auto|read_parquet|parquet_scan|read_json|read_json_auto|read_ndjson|read_ndjson_auto|read_text|read_blob|read_xlsx|sniff_csv|glob|st_read)"?\s*\(`)
	readOnlyRe     = regexp.MustCompile(`^(select|with)\b`)
)

// validateSQL accepts a single read-only statement and returns it without the trailing
// semicolon. File access through string literals is blocked by the executor settings.
func validateSQL(query string) (string, error) {
	query = strings.TrimRight(strings.TrimSpace(query), "; \t\r\n")
	if query == "" {
		return "", ErrEmptyQuery
	}

	code := strings.ToLower(stripLiterals(query))
	if strings.Contains(code, ";") {
		return "", ErrMultipleStatements
	}

	if !readOnlyRe.MatchString(strings.TrimLeft(code, "( \t\r\n")) {
		return "", ErrNotReadOnly
	}

	if fileFunctionRe.MatchString(code) {
		return "", ErrForbiddenFunction
	}

	return query, nil
}

// stripLiterals blanks out single-quoted string literals so their contents are not
// mistaken for SQL. Inside double-quoted identifiers every non-word character becomes
// '_', which keeps a quoted function name like "read_csv" visible to the guard.
func stripLiterals(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	var quote byte
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case quote == 0:
			if ch == '\'' || ch == '"' {
				quote = ch
			}
			b.WriteByte(ch)
		case ch == quote:
			// a doubled quote inside a literal or identifier is escaped
			if i+1 < len(query) && query[i+1] == quote {
				b.WriteString("__")
				i++
				continue
			}
			quote = 0
			b.WriteByte(ch)
		case quote == '\'':
			b.WriteByte(' ')
		case isWordByte(ch):
			b.WriteByte(ch)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}
