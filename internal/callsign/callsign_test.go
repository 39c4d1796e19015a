package callsign

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		Name        string
		Callsign    string
		Station     string
		Position    string
		SubPosition string
	}{
		{"station and position", "EGLL_TWR", "EGLL", "TWR", ""},
		{"with sub-position", "EGLL_N_APP", "EGLL", "APP", "N"},
		{"with multi-part sub-position", "LON_S_1_CTR", "LON", "CTR", "S_1"},
		{"station only", "EGLL", "EGLL", "", ""},
		{"empty", "", "", "", ""},
	}

	for _, tst := range tests {
		t.Run(tst.Name, func(t *testing.T) {
			assert := require.New(t)

			station, position, subPosition := Parse(tst.Callsign)
			assert.Equal(tst.Station, station)
			assert.Equal(tst.Position, position)
			assert.Equal(tst.SubPosition, subPosition)
		})
	}
}

func entry(frequency int64, cs string) Entry {
	station, position, subPosition := Parse(cs)
	return Entry{
		Frequency:   frequency,
		Callsign:    cs,
		Station:     station,
		Position:    position,
		SubPosition: subPosition,
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		Name     string
		A        Entry
		B        Entry
		Viewer   string
		Expected int
	}{
		{
			Name:     "own station first",
			A:        entry(118000000, "EGKK_TWR"),
			B:        entry(121900000, "EGLL_GND"),
			Viewer:   "EGLL_DEL",
			Expected: 1,
		},
		{
			Name:     "position rank",
			A:        entry(118500000, "EGLL_TWR"),
			B:        entry(121900000, "EGLL_GND"),
			Viewer:   "EGLL_DEL",
			Expected: 1,
		},
		{
			Name:     "unknown position last",
			A:        entry(122800000, "EGLL_UNI"),
			B:        entry(127525000, "LON_CTR"),
			Viewer:   "",
			Expected: 1,
		},
		{
			Name:     "station name",
			A:        entry(118500000, "EGKK_TWR"),
			B:        entry(118700000, "EGLL_TWR"),
			Viewer:   "EHAM_GND",
			Expected: -1,
		},
		{
			Name:     "frequency",
			A:        entry(118500000, "EGLL_TWR"),
			B:        entry(118700000, "EGLL_TWR"),
			Viewer:   "EGLL_GND",
			Expected: -1,
		},
		{
			Name:     "equal",
			A:        entry(118500000, "EGLL_TWR"),
			B:        entry(118500000, "EGLL_TWR"),
			Viewer:   "EGLL_GND",
			Expected: 0,
		},
	}

	for _, tst := range tests {
		t.Run(tst.Name, func(t *testing.T) {
			assert := require.New(t)

			got := Compare(tst.A, tst.B, tst.Viewer)
			switch {
			case tst.Expected < 0:
				assert.Less(got, 0)
			case tst.Expected > 0:
				assert.Greater(got, 0)
			default:
				assert.Equal(0, got)
			}
		})
	}
}
