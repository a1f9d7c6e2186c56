package maps

import (
	"cmp"
	"slices"
)

// Keys returns the keys of `m` in ascending order so that callers iterating
// over them produce deterministic output.
func Keys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)
	return keys
}
