package solara

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// FlattenStyle converts a style spec into a single inline CSS string.
// Accepted specs: nil, an inline CSS string, or a map of property to value.
// String specs are parsed and re-emitted declaration by declaration, so
// malformed CSS is rejected instead of passed through into the template.
// Map specs are emitted in sorted property order for deterministic output.
func FlattenStyle(spec interface{}) (string, error) {
	switch s := spec.(type) {
	case nil:
		return "", nil
	case string:
		return normalizeInlineCSS(s)
	case map[string]string:
		pairs := make([]string, 0, len(s))
		for property, value := range s {
			pairs = append(pairs, property+": "+value+";")
		}
		sort.Strings(pairs)
		return strings.Join(pairs, " "), nil
	case map[string]interface{}:
		pairs := make([]string, 0, len(s))
		for property, value := range s {
			pairs = append(pairs, fmt.Sprintf("%s: %v;", property, value))
		}
		sort.Strings(pairs)
		return strings.Join(pairs, " "), nil
	default:
		return "", fmt.Errorf("solara: unsupported style spec type %T", spec)
	}
}

func normalizeInlineCSS(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	declarations, err := parser.ParseDeclarations(s)
	if err != nil {
		return "", fmt.Errorf("solara: invalid style %q: %w", s, err)
	}
	parts := make([]string, 0, len(declarations))
	for _, d := range declarations {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, " "), nil
}
