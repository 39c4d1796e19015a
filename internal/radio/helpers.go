package radio

// The registry itself looks radios up through its index. These helpers
// serve callers holding a Radios() or Snapshot() copy.

// IndexOfFrequency returns the index of the radio with the given frequency,
// or -1 when the frequency is not present.
func IndexOfFrequency(radios []Radio, frequency int64) int {
	for i := range radios {
		if radios[i].Frequency == frequency {
			return i
		}
	}
	return -1
}

// ExistsByFrequency returns true when a radio with the given frequency is
// present.
func ExistsByFrequency(radios []Radio, frequency int64) bool {
	return IndexOfFrequency(radios, frequency) != -1
}
