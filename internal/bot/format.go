package bot

import (
	"fmt"
	"strings"

	"github.com/xaenox/datalake-chat/internal/dispatch"
	"github.com/xaenox/datalake-chat/internal/models"
)

// formatOutcome renders an interaction the way the browser page lays it out: banner,
// notices, then the answer
func formatOutcome(out *dispatch.Outcome) string {
	var lines []string
	if out.Error != "" {
		lines = append(lines, "⚠️ "+out.Error)
	}
	for _, n := range out.Notices {
		lines = append(lines, n.Message)
	}
	if out.Error == "" && len(out.Available) == 0 {
		lines = append(lines, "No CSV or Excel files could be loaded from this folder.")
	}
	if out.Message != "" {
		lines = append(lines, "", out.Message)
	}
	if out.Response != nil {
		lines = append(lines, "", out.Label, out.Response.Text())
	}
	return strings.Join(lines, "\n")
}

func formatHistory(interactions []*models.Interaction) string {
	var b strings.Builder
	b.WriteString("Recent questions:\n")
	for _, i := range interactions {
		fmt.Fprintf(&b, "\n[%s] %s\n", i.Category.Label(), i.Question)
		if i.Error != "" {
			fmt.Fprintf(&b, "⚠️ %s\n", i.Error)
			continue
		}
		b.WriteString(truncate(i.Answer, 300) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
