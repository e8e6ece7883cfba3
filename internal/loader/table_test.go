package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/datalake-chat/internal/models"
)

func TestParseCSVBytes(t *testing.T) {
	t.Run("infers column kinds", func(t *testing.T) {
		ds, err := parseCSVBytes([]byte("id,price,name,empty\n1,2.5,apple,\n2,3,pear,\n"))
		require.NoError(t, err)
		assert.Equal(t, []models.Column{
			{Name: "id", Kind: models.KindInteger},
			{Name: "price", Kind: models.KindFloat},
			{Name: "name", Kind: models.KindText},
			{Name: "empty", Kind: models.KindText},
		}, ds.Columns)
		assert.Len(t, ds.Rows, 2)
	})

	t.Run("pads short rows", func(t *testing.T) {
		ds, err := parseCSVBytes([]byte("a,b,c\n1\n"))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "", ""}}, ds.Rows)
	})

	t.Run("rejects long rows", func(t *testing.T) {
		_, err := parseCSVBytes([]byte("a,b\n1,2,3\n"))
		assert.ErrorContains(t, err, "expected 2 fields in line 2, saw 3")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := parseCSVBytes(nil)
		assert.ErrorIs(t, err, ErrNoColumns)
	})

	t.Run("bare quote", func(t *testing.T) {
		_, err := parseCSVBytes([]byte("a,b\n1,x\"y\n"))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		ds, err := parseCSVBytes([]byte("a,b\n"))
		require.NoError(t, err)
		assert.Empty(t, ds.Rows)
		assert.Equal(t, models.KindText, ds.Columns[0].Kind)
	})
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "a.1", "Unnamed: 2", "b", "a.2"},
		normalizeHeader([]string{"a", "a", " ", "b", "a"}))
	assert.Equal(t,
		[]string{"a", "a.1", "a.2"},
		normalizeHeader([]string{"a", "a.1", "a"}))
}
