package engine

import "strings"

// clip trims s and shortens it to limit runes, marking the cut with "...".
func clip(s string, limit int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

// cleanList drops blank and case-insensitive duplicate entries and keeps at
// most limit of the rest. limit <= 0 means unlimited.
func cleanList(items []string, limit int) []string {
	var out []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || containsFold(out, it) {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// mergeList removes then adds entries, comparing case-insensitively.
func mergeList(list, add, remove []string, limit int) []string {
	remove = cleanList(remove, 0)
	kept := make([]string, 0, len(list)+len(add))
	for _, it := range list {
		if !containsFold(remove, it) {
			kept = append(kept, it)
		}
	}
	return cleanList(append(kept, add...), limit)
}

func containsFold(list []string, v string) bool {
	for _, it := range list {
		if strings.EqualFold(it, v) {
			return true
		}
	}
	return false
}

func withoutFold(list []string, v string) []string {
	return mergeList(list, nil, []string{v}, 0)
}
