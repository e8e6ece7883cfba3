package lake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSQL(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{"select", "SELECT 1", "SELECT 1", nil},
		{"trailing semicolon", "  select count(*) from \"sales\";\n", "select count(*) from \"sales\"", nil},
		{"cte", "WITH t AS (SELECT 1 AS x) SELECT x FROM t", "WITH t AS (SELECT 1 AS x) SELECT x FROM t", nil},
		{"parenthesised", "(SELECT 1) UNION (SELECT 2)", "(SELECT 1) UNION (SELECT 2)", nil},
		{"semicolon in literal", "SELECT 'a;b'", "SELECT 'a;b'", nil},
		{"escaped quote", "SELECT 'it''s; fine'", "SELECT 'it''s; fine'", nil},
		{"function name in literal", "SELECT * FROM t WHERE note = 'read_csv(x)'", "SELECT * FROM t WHERE note = 'read_csv(x)'", nil},
		{"no space after select", `SELECT*FROM "t"`, `SELECT*FROM "t"`, nil},
		{"semicolon in identifier", `SELECT COUNT(*) FROM "eu" WHERE "a;b" IS NOT NULL`, `SELECT COUNT(*) FROM "eu" WHERE "a;b" IS NOT NULL`, nil},
		{"quote in identifier", `SELECT "it's" FROM t`, `SELECT "it's" FROM t`, nil},
		{"escaped identifier quote", `SELECT "say ""hi;""" FROM t`, `SELECT "say ""hi;""" FROM t`, nil},
		{"empty", " ; ", "", ErrEmptyQuery},
		{"two statements", "SELECT 1; DROP TABLE t", "", ErrMultipleStatements},
		{"statement after quote in identifier", `SELECT "it's" FROM t; DROP TABLE t`, "", ErrMultipleStatements},
		{"read_csv after quote in identifier", `SELECT "it's" FROM read_csv('/etc/passwd')`, "", ErrForbiddenFunction},
		{"quoted read_csv", `SELECT * FROM "read_csv"('/etc/passwd')`, "", ErrForbiddenFunction},
		{"delete", "DELETE FROM t", "", ErrNotReadOnly},
		{"selected prefix", "SELECTED_ROWS FROM t", "", ErrNotReadOnly},
		{"copy", "COPY t TO 'out.csv'", "", ErrNotReadOnly},
		{"attach", "ATTACH 'x.db'", "", ErrNotReadOnly},
		{"read_csv", "SELECT * FROM read_csv('/etc/passwd')", "", ErrForbiddenFunction},
		{"glob", "select * from glob ('*')", "", ErrForbiddenFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateSQL(tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripLiterals(t *testing.T) {
	assert.Equal(t, `select '   ' from "a_b" where "it_s" = ' '`,
		stripLiterals(`select 'x;y' from "a;b" where "it's" = ';'`))
}
