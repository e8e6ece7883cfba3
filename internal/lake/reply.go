package lake

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedReply = errors.New("malformed model reply")

const (
	replySQL  = "sql"
	replyText = "text"
)

type reply struct {
	Type   string `json:"type"`
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
}

// parseReply decodes the model's JSON object, tolerating Markdown code fences and
// surrounding prose
func parseReply(raw string) (*reply, error) {
	body := strings.TrimSpace(raw)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedReply)
	}

	var r reply
	if err := json.Unmarshal([]byte(body[start:end+1]), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if r.Type == "" && r.SQL != "" {
		r.Type = replySQL
	}

	switch r.Type {
	case replySQL:
		if strings.TrimSpace(r.SQL) == "" {
			return nil, fmt.Errorf("%w: empty sql", ErrMalformedReply)
		}
	case replyText:
		if strings.TrimSpace(r.Answer) == "" {
			return nil, fmt.Errorf("%w: empty answer", ErrMalformedReply)
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedReply, r.Type)
	}

	return &r, nil
}
