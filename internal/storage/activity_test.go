package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atcvoice/radio-registry/internal/config"
)

func (ts *StorageTestSuite) TestActivity() {
	assert := require.New(ts.T())

	start := time.Date(2026, 3, 4, 10, 20, 30, 0, time.UTC)
	recs := []ActivityRecord{
		{Time: start, Counters: map[string]float64{ActivityRXCount: 1}},
		{Time: start.Add(10 * time.Second), Counters: map[string]float64{ActivityRXCount: 2}},
		{Time: start.Add(time.Minute), Counters: map[string]float64{ActivityRXCount: 1}},
	}
	for _, rec := range recs {
		assert.NoError(SaveActivity(context.Background(), 118500000, rec))
	}

	ts.T().Run("Minute", func(t *testing.T) {
		assert := require.New(t)

		out, err := GetActivity(context.Background(), AggregationMinute, 118500000, start, start.Add(2*time.Minute))
		assert.NoError(err)
		assert.Equal([]ActivityRecord{
			{Time: time.Date(2026, 3, 4, 10, 20, 0, 0, time.UTC), Counters: map[string]float64{ActivityRXCount: 3}},
			{Time: time.Date(2026, 3, 4, 10, 21, 0, 0, time.UTC), Counters: map[string]float64{ActivityRXCount: 1}},
			{Time: time.Date(2026, 3, 4, 10, 22, 0, 0, time.UTC), Counters: map[string]float64{}},
		}, out)
	})

	ts.T().Run("Day", func(t *testing.T) {
		assert := require.New(t)

		out, err := GetActivity(context.Background(), AggregationDay, 118500000, start, start)
		assert.NoError(err)
		assert.Equal([]ActivityRecord{
			{Time: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), Counters: map[string]float64{ActivityRXCount: 4}},
		}, out)
	})

	ts.T().Run("Other frequency", func(t *testing.T) {
		assert := require.New(t)

		out, err := GetActivity(context.Background(), AggregationHour, 121900000, start, start)
		assert.NoError(err)
		assert.Len(out, 1)
		assert.Len(out[0].Counters, 0)
	})

	ts.T().Run("Recorder", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ActivityRecorder{}.RecordActivity(context.Background(), 121900000, ActivityRXCount))

		now := time.Now()
		out, err := GetActivity(context.Background(), AggregationMinute, 121900000, now.Add(-time.Minute), now)
		assert.NoError(err)

		var count float64
		for _, rec := range out {
			count += rec.Counters[ActivityRXCount]
		}
		assert.EqualValues(1, count)
	})
}

func TestSetupActivity(t *testing.T) {
	t.Run("Invalid interval", func(t *testing.T) {
		assert := require.New(t)

		var c config.Config
		c.Activity.AggregationIntervals = []string{"MINUTE", "YEAR"}
		assert.Error(Setup(c))
	})

	t.Run("Invalid timezone", func(t *testing.T) {
		assert := require.New(t)

		var c config.Config
		c.Activity.Timezone = "Nowhere/Atlantis"
		assert.Error(Setup(c))
	})
}

func TestTruncate(t *testing.T) {
	assert := require.New(t)
	assert.NoError(setupActivity("UTC", nil, 0, 0, 0))

	ts := time.Date(2026, 3, 4, 10, 20, 30, 500, time.UTC)

	out, err := truncate(ts, AggregationMinute)
	assert.NoError(err)
	assert.Equal(time.Date(2026, 3, 4, 10, 20, 0, 0, time.UTC), out)

	out, err = truncate(ts, AggregationHour)
	assert.NoError(err)
	assert.Equal(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), out)

	out, err = truncate(ts, AggregationDay)
	assert.NoError(err)
	assert.Equal(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), out)

	_, err = truncate(ts, AggregationInterval("YEAR"))
	assert.Error(err)
}

func TestActivityDisabled(t *testing.T) {
	assert := require.New(t)
	assert.NoError(Setup(config.Config{}))

	assert.Equal(errRedisDisabled, SaveActivity(context.Background(), 118500000, ActivityRecord{}))
	_, err := GetActivity(context.Background(), AggregationMinute, 118500000, time.Now(), time.Now())
	assert.Equal(errRedisDisabled, err)
}
