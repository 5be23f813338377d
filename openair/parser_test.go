// openair/parser_test.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package openair

import (
	"strings"
	"testing"

	"github.com/mmp/openair/airspace"
)

func TestParseRestrictedArea(t *testing.T) {
	text := `AC R
AN Test Restricted
AL GND
AH 5000ft
DP 40:00:00 N 100:00:00 W
DP 40:10:00 N 100:00:00 W
DP 40:10:00 N 100:10:00 W
*`

	parsed := Parse(text, nil)
	if len(parsed) != 1 {
		t.Fatalf("got %d airspaces, expected 1", len(parsed))
	}

	a := parsed[0]
	if a.Name != "Test Restricted" {
		t.Errorf("name %q", a.Name)
	}
	if a.Class != "Restricted" {
		t.Errorf("class %q, expected \"Restricted\"", a.Class)
	}
	if len(a.Polygon) != 4 {
		t.Fatalf("got %d vertices, expected 4 (3 + closing vertex)", len(a.Polygon))
	}
	if a.Polygon[0] != a.Polygon[3] {
		t.Errorf("polygon not closed: first %v last %v", a.Polygon[0], a.Polygon[3])
	}
	if lat, lon := a.Polygon[0].Latitude(), a.Polygon[0].Longitude(); lat != 40 || lon != -100 {
		t.Errorf("first vertex %v, expected 40 N 100 W", a.Polygon[0])
	}

	recs := ConvertToAPIFormat(parsed, airspace.SourceUS)
	if len(recs) != 1 {
		t.Fatalf("got %d records, expected 1", len(recs))
	}
	r := recs[0]
	if r.Type != "Restricted" {
		t.Errorf("record type %q", r.Type)
	}
	if r.Altitude == nil {
		t.Fatalf("record has no altitude band")
	}
	if r.Altitude.Floor != 0 || r.Altitude.Ceiling != 5000 {
		t.Errorf("altitude %d-%d, expected 0-5000", r.Altitude.Floor, r.Altitude.Ceiling)
	}
	if !strings.HasPrefix(r.ID, "US-") {
		t.Errorf("record id %q not namespaced by source", r.ID)
	}
}

func TestParseCircle(t *testing.T) {
	text := `AC P
AN Test Prohibited
AL SFC
AH FL180
V X=40:00:00 N 100:00:00 W
DC 5
`

	parsed := Parse(text, nil)
	if len(parsed) != 1 {
		t.Fatalf("got %d airspaces, expected 1", len(parsed))
	}

	a := parsed[0]
	if a.Class != "Prohibited" {
		t.Errorf("class %q", a.Class)
	}
	if !a.HasCenter {
		t.Fatalf("circle airspace has no center")
	}
	if a.Center.Latitude() != 40 || a.Center.Longitude() != -100 {
		t.Errorf("center %v", a.Center)
	}
	if a.RadiusNM != 5 {
		t.Errorf("radius %v NM, expected 5", a.RadiusNM)
	}

	recs := ConvertToAPIFormat(parsed, airspace.SourceUS)
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Kind() != airspace.GeometryCircle {
		t.Errorf("record kind %v, expected circle", recs[0].Kind())
	}
	if recs[0].Altitude.Ceiling != 18000 {
		t.Errorf("FL180 ceiling %d, expected 18000", recs[0].Altitude.Ceiling)
	}
}

func TestParseMultipleAirspaces(t *testing.T) {
	// A new AC record implicitly closes the previous airspace even
	// without a separator line.
	text := `AC R
AN First
DP 40:00:00 N 100:00:00 W
DP 40:10:00 N 100:00:00 W
DP 40:10:00 N 100:10:00 W
AC D
AN Second
DP 41:00:00 N 101:00:00 W
DP 41:10:00 N 101:00:00 W
DP 41:10:00 N 101:10:00 W
`

	parsed := Parse(text, nil)
	if len(parsed) != 2 {
		t.Fatalf("got %d airspaces, expected 2", len(parsed))
	}
	if parsed[0].Name != "First" || parsed[1].Name != "Second" {
		t.Errorf("names %q, %q", parsed[0].Name, parsed[1].Name)
	}
	if parsed[1].Class != "Class D" {
		t.Errorf("second class %q", parsed[1].Class)
	}
	if parsed[0].ID == parsed[1].ID {
		t.Errorf("duplicate ids %q", parsed[0].ID)
	}
}

func TestParseArcBetweenPoints(t *testing.T) {
	text := `AC R
AN Arc Area
V X=40:00:00 N 100:00:00 W
DP 40:10:00 N 100:00:00 W
DB 40:10:00 N 100:00:00 W, 40:00:00 N 099:47:00 W
DP 40:00:00 N 100:00:00 W
`

	parsed := Parse(text, nil)
	if len(parsed) != 1 {
		t.Fatalf("got %d airspaces, expected 1", len(parsed))
	}

	a := parsed[0]
	// One DP vertex, then 30 arc samples (the first being dropped as a
	// duplicate of that vertex), one more DP, plus the closing vertex.
	if len(a.Polygon) < 30 {
		t.Errorf("arc not tessellated: %d vertices", len(a.Polygon))
	}
	if a.Polygon[0] != a.Polygon[len(a.Polygon)-1] {
		t.Errorf("arc polygon not closed")
	}
}

func TestParseDropsIncomplete(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{"empty input", ""},
		{"name but no geometry", "AC R\nAN Nameless Geometry\nAL GND\nAH 5000ft\n"},
		{"geometry but no name", "AC R\nDP 40:00:00 N 100:00:00 W\nDP 40:10:00 N 100:00:00 W\nDP 40:10:00 N 100:10:00 W\n"},
		{"comments only", "* a comment\n* another\n"},
	} {
		if got := Parse(tc.text, nil); len(got) != 0 {
			t.Errorf("%s: got %d airspaces, expected 0", tc.name, len(got))
		}
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	// Malformed coordinate lines are skipped without losing the rest of
	// the airspace.
	text := `AC R
AN Mostly Good
DP garbage
DP 40:00:00 N 100:00:00 W
DP 40:10:00 N 100:00:00 W
DC not-a-number
DP 40:10:00 N 100:10:00 W
`

	parsed := Parse(text, nil)
	if len(parsed) != 1 {
		t.Fatalf("got %d airspaces, expected 1", len(parsed))
	}
	if len(parsed[0].Polygon) != 4 {
		t.Errorf("got %d vertices, expected 4", len(parsed[0].Polygon))
	}
}

func TestParseCRLF(t *testing.T) {
	text := "AC R\r\nAN Windows Lines\r\nDP 40:00:00 N 100:00:00 W\r\nDP 40:10:00 N 100:00:00 W\r\nDP 40:10:00 N 100:10:00 W\r\n"
	parsed := Parse(text, nil)
	if len(parsed) != 1 {
		t.Fatalf("got %d airspaces, expected 1", len(parsed))
	}
	if parsed[0].Name != "Windows Lines" {
		t.Errorf("name %q", parsed[0].Name)
	}
}

func TestClassLabels(t *testing.T) {
	for _, tc := range []struct{ code, want string }{
		{"A", "Class A"},
		{"Q", "Class E"},
		{"R", "Restricted"},
		{"F", "Restricted"},
		{"P", "Prohibited"},
		{"W", "Warning"},
		{"TMZ", "TMZ"}, // unrecognized codes pass through
	} {
		if got := classLabel(tc.code); got != tc.want {
			t.Errorf("classLabel(%q) = %q, expected %q", tc.code, got, tc.want)
		}
	}
}
