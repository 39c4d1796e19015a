// Package frequency converts between raw frequencies in Hz and the MHz
// representation shown to the operator.
package frequency

import (
	"fmt"
	"math"
)

// HzPerMHz is the number of Hz in one MHz.
const HzPerMHz = 1000000

// HzToMHz returns the given frequency in MHz.
func HzToMHz(hz int64) float64 {
	return float64(hz) / HzPerMHz
}

// MHzToHz returns the given MHz frequency in Hz, rounded to the nearest Hz.
func MHzToHz(mhz float64) int64 {
	return int64(math.Round(mhz * HzPerMHz))
}

// HzToDisplayString returns the frequency as MHz with exactly three
// fractional digits (e.g. 121500000 -> "121.500").
//
// The value is rounded half-up to whole kHz using integer arithmetic, so the
// same input always renders the same string.
func HzToDisplayString(hz int64) string {
	sign := ""
	if hz < 0 {
		sign = "-"
		hz = -hz
	}

	khz := (hz + 500) / 1000
	return fmt.Sprintf("%s%d.%03d", sign, khz/1000, khz%1000)
}
