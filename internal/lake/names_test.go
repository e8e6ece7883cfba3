package lake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, "sales_2023", tableName("Sales 2023.csv"))
	assert.Equal(t, "q1_report", tableName("q1-report.xlsx"))
	assert.Equal(t, "t_2023", tableName("2023.csv"))
	assert.Equal(t, "t", tableName("___.csv"))
	assert.Equal(t, "caf", tableName("café.csv"))
}

func TestUniqueTableNames(t *testing.T) {
	assert.Equal(t,
		[]string{"sales", "sales_2", "other", "sales_3"},
		uniqueTableNames([]string{"sales.csv", "Sales.csv", "other.csv", "sales .csv"}))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"a ""b"""`, quoteIdent(`a "b"`))
}
