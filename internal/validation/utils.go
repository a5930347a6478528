package validation

import (
	"strings"

	"github.com/deppfellow/go-forms/internal/lib/utils"
)

// MaxLongTextRunes caps free-text answers before they reach the record store.
const MaxLongTextRunes = 5000

// Kind selects how a field is normalized.
type Kind string

const (
	KindText     Kind = "text"
	KindLongText Kind = "longtext"
	KindMulti    Kind = "multi"
	KindBool     Kind = "bool"
)

// Mapping ties a request field to the record store's label for it.
type Mapping struct {
	Field string
	Label string
	Kind  Kind
}

// Sanitize builds the outbound record for p. Text values are trimmed and
// only included when non-empty; multi values are only included when at
// least one item survives; bool values are always included.
func Sanitize(p Payload, mappings []Mapping) map[string]any {
	out := make(map[string]any, len(mappings))
	for _, m := range mappings {
		switch m.Kind {
		case KindBool:
			out[m.Label] = Bool(p[m.Field])
		case KindMulti:
			if values := Multi(p[m.Field]); len(values) > 0 {
				out[m.Label] = values
			}
		case KindLongText:
			if s := utils.TruncateRunes(p.String(m.Field), MaxLongTextRunes); s != "" {
				out[m.Label] = s
			}
		default:
			if s := p.String(m.Field); s != "" {
				out[m.Label] = s
			}
		}
	}
	return out
}

// Multi accepts a string or an array and returns its trimmed non-empty
// string items.
func Multi(v any) []string {
	var items []any
	switch t := v.(type) {
	case string:
		items = []any{t}
	case []any:
		items = t
	default:
		return nil
	}

	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bool is true only for JSON true or a checkbox-style "true"/"on" string.
func Bool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "on":
			return true
		}
	}
	return false
}
