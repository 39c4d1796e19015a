// Package callsign implements the default callsign parser and the default
// ordering of tuned stations relative to the operator's own station.
package callsign

import (
	"strings"
)

// positionRank defines the display order of the known position suffixes.
// Unknown positions are ordered after the known ones.
var positionRank = map[string]int{
	"ATIS": 0,
	"DEL":  1,
	"GND":  2,
	"TWR":  3,
	"DEP":  4,
	"APP":  5,
	"CTR":  6,
	"FSS":  7,
}

// Entry holds the fields used to order two tuned stations.
type Entry struct {
	Frequency   int64
	Callsign    string
	Station     string
	Position    string
	SubPosition string
}

// Parse splits the given callsign into its station, position and
// sub-position parts, e.g. "EGLL_N_APP" returns ("EGLL", "APP", "N").
func Parse(callsign string) (station, position, subPosition string) {
	parts := strings.Split(callsign, "_")
	station = parts[0]

	if len(parts) > 1 {
		position = parts[len(parts)-1]
	}

	if len(parts) > 2 {
		subPosition = strings.Join(parts[1:len(parts)-1], "_")
	}

	return station, position, subPosition
}

// Compare returns a negative value when a must be ordered before b, a
// positive value when a must be ordered after b and 0 when both are equal.
//
// Stations matching the station part of viewerCallsign are ordered first,
// then entries are ordered by position, station, sub-position and frequency.
func Compare(a, b Entry, viewerCallsign string) int {
	viewerStation, _, _ := Parse(viewerCallsign)

	aOwn := viewerStation != "" && a.Station == viewerStation
	bOwn := viewerStation != "" && b.Station == viewerStation
	if aOwn != bOwn {
		if aOwn {
			return -1
		}
		return 1
	}

	if d := rank(a.Position) - rank(b.Position); d != 0 {
		return d
	}

	if c := strings.Compare(a.Station, b.Station); c != 0 {
		return c
	}

	if c := strings.Compare(a.SubPosition, b.SubPosition); c != 0 {
		return c
	}

	switch {
	case a.Frequency < b.Frequency:
		return -1
	case a.Frequency > b.Frequency:
		return 1
	}

	return 0
}

func rank(position string) int {
	if r, ok := positionRank[strings.ToUpper(position)]; ok {
		return r
	}
	return len(positionRank)
}
