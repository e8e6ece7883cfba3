package lake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	t.Run("sql", func(t *testing.T) {
		r, err := parseReply(`{"type":"sql","sql":"SELECT 1"}`)
		require.NoError(t, err)
		assert.Equal(t, replySQL, r.Type)
		assert.Equal(t, "SELECT 1", r.SQL)
	})

	t.Run("code fence", func(t *testing.T) {
		r, err := parseReply("```json\n{\"type\": \"TEXT\", \"answer\": \"hello\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, replyText, r.Type)
		assert.Equal(t, "hello", r.Answer)
	})

	t.Run("type inferred from sql", func(t *testing.T) {
		r, err := parseReply(`{"sql":"SELECT 2"}`)
		require.NoError(t, err)
		assert.Equal(t, replySQL, r.Type)
	})

	for name, raw := range map[string]string{
		"no json":      "I think the answer is 4",
		"broken json":  `{"type":"sql",`,
		"empty sql":    `{"type":"sql","sql":"  "}`,
		"empty answer": `{"type":"text"}`,
		"unknown type": `{"type":"chart","sql":""}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseReply(raw)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}
