// Package strings holds slice helpers shared by request DTOs.
package strings

import (
	"strings"
)

// CompactTrimmed trims every value, drops blanks and keeps only the first
// occurrence of each remaining value. A nil input stays nil.
func CompactTrimmed(values []string) []string {
	return compact(values, strings.TrimSpace)
}

func compact(values []string, normalize func(string) string) []string {
	if values == nil {
		return nil
	}
	out := values[:0:0]
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = normalize(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
