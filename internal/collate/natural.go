package collate

import (
	"sort"

	"github.com/maruel/natural"
)

// Less reports whether filename a sorts before b in natural order.
// Digit runs compare by value, other runs by code point. Names that
// natural.Less considers equal (e.g. "01" and "1") are ordered by plain
// string comparison so the result is a strict total order.
func Less(a, b string) bool {
	if natural.Less(a, b) {
		return true
	}
	if natural.Less(b, a) {
		return false
	}
	return a < b
}

// SortNames returns a naturally ordered copy of names without modifying the input.
func SortNames(names []string) []string {
	if len(names) == 0 {
		return []string{}
	}

	result := make([]string, len(names))
	copy(result, names)

	sort.SliceStable(result, func(i, j int) bool {
		return Less(result[i], result[j])
	})

	return result
}
