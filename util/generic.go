// util/generic.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

// MapSlice returns the slice that is the result of applying the provided
// xform function to all of the elements of the given slice.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	var to []T
	for _, item := range from {
		to = append(to, xform(item))
	}
	return to
}

// FilterSlice applies the given filter function pred to the given slice,
// returning a new slice that only contains elements where pred returned
// true.
func FilterSlice[V any](s []V, pred func(V) bool) []V {
	var filtered []V
	for _, item := range s {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// DedupStrings returns the provided strings with duplicates removed,
// preserving the order of first appearance.
func DedupStrings(s []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, str := range s {
		if !seen[str] {
			seen[str] = true
			out = append(out, str)
		}
	}
	return out
}

// AnySlice reports whether pred returns true for any element of s.
func AnySlice[V any](s []V, pred func(V) bool) bool {
	for _, item := range s {
		if pred(item) {
			return true
		}
	}
	return false
}
