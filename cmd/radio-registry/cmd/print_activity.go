package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/frequency"
	"github.com/atcvoice/radio-registry/internal/storage"
)

var (
	activityInterval string
	activitySince    time.Duration
)

var printActivityCmd = &cobra.Command{
	Use:     "print-activity [frequency MHz]",
	Short:   "Print the aggregated reception activity of a frequency as JSON",
	Example: `radio-registry print-activity 118.500 --interval HOUR --since 24h`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Fatal("frequency (MHz) must be given as an argument")
		}

		freq, err := parseMHz(args[0])
		if err != nil {
			log.WithError(err).Fatal("parse frequency error")
		}

		if err := storage.Setup(config.C); err != nil {
			log.Fatal(err)
		}

		end := time.Now()
		recs, err := storage.GetActivity(
			context.Background(),
			storage.AggregationInterval(strings.ToUpper(activityInterval)),
			freq,
			end.Add(-activitySince),
			end,
		)
		if err != nil {
			log.WithError(err).Fatal("get activity error")
		}

		b, err := json.MarshalIndent(struct {
			Frequency string                   `json:"frequency"`
			Interval  string                   `json:"interval"`
			Records   []storage.ActivityRecord `json:"records"`
		}{
			Frequency: frequency.HzToDisplayString(freq),
			Interval:  strings.ToUpper(activityInterval),
			Records:   recs,
		}, "", "    ")
		if err != nil {
			log.WithError(err).Fatal("json marshal error")
		}

		fmt.Println(string(b))
	},
}

func init() {
	printActivityCmd.Flags().StringVar(&activityInterval, "interval", string(storage.AggregationMinute), "aggregation interval (MINUTE, HOUR or DAY)")
	printActivityCmd.Flags().DurationVar(&activitySince, "since", time.Hour, "period to print, counted back from now")
}

// parseMHz parses a frequency given in MHz (e.g. "118.500") into Hz.
func parseMHz(s string) (int64, error) {
	mhz, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse float error")
	}
	if mhz <= 0 {
		return 0, fmt.Errorf("frequency must be positive: %s", s)
	}
	return frequency.MHzToHz(mhz), nil
}
