package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMHz(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
		err      bool
	}{
		{in: "118.500", expected: 118500000},
		{in: " 121.9 ", expected: 121900000},
		{in: "124.475", expected: 124475000},
		{in: "abc", err: true},
		{in: "0", err: true},
	}

	for _, tst := range tests {
		t.Run(tst.in, func(t *testing.T) {
			assert := require.New(t)

			freq, err := parseMHz(tst.in)
			if tst.err {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tst.expected, freq)
		})
	}
}

func TestPrintActivityFlags(t *testing.T) {
	assert := require.New(t)

	assert.Equal("MINUTE", printActivityCmd.Flags().Lookup("interval").DefValue)
	assert.Equal("1h0m0s", printActivityCmd.Flags().Lookup("since").DefValue)
}
