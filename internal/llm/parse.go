package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyResponse is returned when the model produced no content at all.
var ErrEmptyResponse = errors.New("empty response from model")

// CleanJSON strips the markdown fences models like to wrap JSON in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// DecodeObject parses model output as a single JSON object into T.
// Leading or trailing chatter around the object is tolerated; anything else is an error.
func DecodeObject[T any](raw string) (T, error) {
	var out T

	clean := CleanJSON(raw)
	if clean == "" {
		return out, ErrEmptyResponse
	}
	if !strings.HasPrefix(clean, "{") {
		start := strings.Index(clean, "{")
		end := strings.LastIndex(clean, "}")
		if start < 0 || end <= start {
			return out, fmt.Errorf("response is not a JSON object: %q", truncate(clean, 120))
		}
		clean = clean[start : end+1]
	}

	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return out, fmt.Errorf("failed to parse model response: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Text decodes a string field that models sometimes send as a number or null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(strings.TrimSpace(x))
	case float64:
		*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected a string, got %T", v)
	}
	return nil
}

// List decodes a string array that may also arrive as null or a comma separated string.
// Blank and duplicate entries are dropped.
type List []string

func (l *List) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	var items []string
	switch x := v.(type) {
	case nil:
	case string:
		items = strings.Split(x, ",")
	case []any:
		for _, e := range x {
			switch s := e.(type) {
			case string:
				items = append(items, s)
			case float64:
				items = append(items, strconv.FormatFloat(s, 'f', -1, 64))
			}
		}
	default:
		return fmt.Errorf("expected a list of strings, got %T", v)
	}

	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	*l = out
	return nil
}

// Number decodes a numeric field that may arrive quoted ("85", "85%") or as null.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*n = 0
	case float64:
		*n = Number(x)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("expected a number, got %q", x)
		}
		*n = Number(f)
	default:
		return fmt.Errorf("expected a number, got %T", v)
	}
	return nil
}
