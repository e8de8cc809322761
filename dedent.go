package solara

import "strings"

// Dedent removes the longest leading-whitespace prefix shared by all
// non-blank lines. Lines containing only whitespace are ignored when
// computing the prefix. Tabs and spaces are not treated as equivalent.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")

	prefix := ""
	found := false
	for _, line := range lines {
		body := strings.TrimLeft(line, " \t")
		if body == "" {
			continue
		}
		indent := line[:len(line)-len(body)]
		if !found {
			prefix = indent
			found = true
			continue
		}
		prefix = commonPrefix(prefix, indent)
		if prefix == "" {
			return text
		}
	}
	if !found || prefix == "" {
		return text
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
