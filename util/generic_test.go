// util/generic_test.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"strconv"
	"testing"
)

func TestMapSlice(t *testing.T) {
	a := []int{1, 2, 3, 4}
	b := MapSlice(a, func(v int) string { return strconv.Itoa(10 * v) })
	if !slices.Equal(b, []string{"10", "20", "30", "40"}) {
		t.Errorf("got %v", b)
	}
	if r := MapSlice(nil, func(v int) int { return v }); len(r) != 0 {
		t.Errorf("mapping empty slice gave %v", r)
	}
}

func TestFilterSlice(t *testing.T) {
	a := []int{1, 2, 3, 4, 5}
	b := FilterSlice(a, func(v int) bool { return v%2 == 0 })
	if !slices.Equal(b, []int{2, 4}) {
		t.Errorf("got %v", b)
	}
	if b := FilterSlice(a, func(int) bool { return false }); len(b) != 0 {
		t.Errorf("got %v filtering everything out", b)
	}
}

func TestDedupStrings(t *testing.T) {
	got := DedupStrings([]string{"b", "a", "b", "c", "a"})
	if !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("got %v, expected first-appearance order preserved", got)
	}
	if got := DedupStrings(nil); len(got) != 0 {
		t.Errorf("got %v from nil", got)
	}
}

func TestAnySlice(t *testing.T) {
	a := []int{1, 3, 5}
	if AnySlice(a, func(v int) bool { return v%2 == 0 }) {
		t.Errorf("found an even number in %v", a)
	}
	if !AnySlice(a, func(v int) bool { return v == 3 }) {
		t.Errorf("didn't find 3 in %v", a)
	}
}
