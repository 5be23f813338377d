// openair/altitude.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package openair

import (
	"regexp"
	"strconv"
	"strings"
)

var reAltitudeValue = regexp.MustCompile(`[0-9]+`)

// ParseAltitude converts OpenAir altitude text into feet. "GND" and "SFC"
// mean the surface; "FL<n>" is a flight level, n hundreds of feet; plain
// numbers (with or without a "ft" suffix) are feet. The returned Boolean
// indicates whether a value could be extracted at all--callers substitute
// their own defaults when it is false.
func ParseAltitude(text string) (int, bool) {
	up := strings.ToUpper(text)
	if strings.Contains(up, "GND") || strings.Contains(up, "SFC") {
		return 0, true
	}

	m := reAltitudeValue.FindString(up)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}

	if strings.Contains(up, "FL") {
		v *= 100
	}
	return v, true
}
