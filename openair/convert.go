// openair/convert.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package openair

import (
	"fmt"
	"time"

	"github.com/mmp/openair/airspace"
)

// EffectiveWindow is the placeholder validity period assigned to
// converted records. OpenAir files carry no NOTAM validity data, so this
// is a documented design limitation rather than a parser to be written.
const EffectiveWindow = 365 * 24 * time.Hour

// ConvertToAPIFormat maps parsed airspaces into canonical records,
// namespacing ids by source and normalizing altitude text into feet. The
// representative coordinate is the arc/circle center when present, else
// the first polygon vertex.
func ConvertToAPIFormat(parsed []Airspace, source airspace.Source) []airspace.Record {
	now := time.Now()

	recs := make([]airspace.Record, 0, len(parsed))
	for i, a := range parsed {
		r := airspace.Record{
			ID:             fmt.Sprintf("%s-%s-%d", source, a.ID, i),
			NotamNumber:    a.Name,
			Location:       a.Name,
			Type:           a.Class,
			Polygon:        a.Polygon,
			EffectiveStart: now,
			EffectiveEnd:   now.Add(EffectiveWindow),
		}

		floor, ok := ParseAltitude(a.FloorText)
		if !ok {
			floor = 0
		}
		ceiling, ok := ParseAltitude(a.CeilingText)
		if !ok {
			ceiling = airspace.DefaultCeiling
		}
		r.Altitude = &airspace.AltitudeBand{Floor: floor, Ceiling: ceiling}

		if a.HasCenter {
			c := a.Center
			r.Coordinates = &c
			r.RadiusNM = a.RadiusNM
		} else if len(a.Polygon) > 0 {
			c := a.Polygon[0]
			r.Coordinates = &c
		}

		r.ComputeBounds()
		recs = append(recs, r)
	}
	return recs
}
