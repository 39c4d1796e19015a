package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/logging"
)

// AggregationInterval defines the aggregation type.
type AggregationInterval string

// Activity aggregation intervals.
const (
	AggregationMinute AggregationInterval = "MINUTE"
	AggregationHour   AggregationInterval = "HOUR"
	AggregationDay    AggregationInterval = "DAY"
)

// Activity counters.
const (
	ActivityRXCount = "rx_count"
)

const activityKeyTempl = "radio:activity:%d:%s:%d" // frequency | aggregation | timestamp

var (
	timeLocation         = time.Local
	aggregationIntervals []AggregationInterval
	activityMinuteTTL    time.Duration
	activityHourTTL      time.Duration
	activityDayTTL       time.Duration
)

// ActivityRecord holds the activity counters of a single frequency.
type ActivityRecord struct {
	Time     time.Time          `json:"time"`
	Counters map[string]float64 `json:"counters"`
}

// ActivityRecorder records the activity of a frequency in Redis.
type ActivityRecorder struct{}

// RecordActivity increments the given counter of the given frequency.
func (ActivityRecorder) RecordActivity(ctx context.Context, frequency int64, counter string) error {
	return SaveActivity(ctx, frequency, ActivityRecord{
		Time:     time.Now(),
		Counters: map[string]float64{counter: 1},
	})
}

func setupActivity(timezone string, intervals []string, minute, hour, day time.Duration) error {
	timeLocation = time.Local
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return errors.Wrap(err, "load location error")
		}
		timeLocation = loc
	}

	aggregationIntervals = nil
	for _, i := range intervals {
		agg := AggregationInterval(i)
		switch agg {
		case AggregationMinute, AggregationHour, AggregationDay:
			aggregationIntervals = append(aggregationIntervals, agg)
		default:
			return fmt.Errorf("unexpected aggregation interval: %s", i)
		}
	}

	activityMinuteTTL = minute
	activityHourTTL = hour
	activityDayTTL = day

	return nil
}

// SaveActivity aggregates and stores the given activity for every configured
// aggregation interval.
func SaveActivity(ctx context.Context, frequency int64, rec ActivityRecord) error {
	if !Enabled() {
		return errRedisDisabled
	}

	for _, agg := range aggregationIntervals {
		if err := saveActivityForInterval(ctx, agg, frequency, rec); err != nil {
			return errors.Wrap(err, "save activity for interval error")
		}
	}

	return nil
}

func saveActivityForInterval(ctx context.Context, agg AggregationInterval, frequency int64, rec ActivityRecord) error {
	if len(rec.Counters) == 0 {
		return nil
	}

	ts, err := truncate(rec.Time, agg)
	if err != nil {
		return err
	}

	var ttl time.Duration
	switch agg {
	case AggregationMinute:
		ttl = activityMinuteTTL
	case AggregationHour:
		ttl = activityHourTTL
	case AggregationDay:
		ttl = activityDayTTL
	}

	key := GetRedisKey(activityKeyTempl, frequency, agg, ts.Unix())

	pipe := RedisClient().TxPipeline()
	for k, v := range rec.Counters {
		pipe.HIncrByFloat(ctx, key, k, v)
	}
	pipe.PExpire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "exec error")
	}

	log.WithFields(log.Fields{
		"frequency":   frequency,
		"aggregation": agg,
		"ctx_id":      ctx.Value(logging.ContextIDKey),
	}).Debug("storage: activity saved")

	return nil
}

// GetActivity returns the activity of the given frequency for the requested
// aggregation interval. Every interval between start and end is returned,
// also when it holds no counters.
func GetActivity(ctx context.Context, agg AggregationInterval, frequency int64, start, end time.Time) ([]ActivityRecord, error) {
	if !Enabled() {
		return nil, errRedisDisabled
	}

	start, err := truncate(start, agg)
	if err != nil {
		return nil, err
	}
	end, err = truncate(end, agg)
	if err != nil {
		return nil, err
	}

	var timestamps []time.Time
	for i := 0; ; i++ {
		var ts time.Time
		switch agg {
		case AggregationMinute:
			ts = time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), start.Minute()+i, 0, 0, timeLocation)
		case AggregationHour:
			ts = time.Date(start.Year(), start.Month(), start.Day(), start.Hour()+i, 0, 0, 0, timeLocation)
		case AggregationDay:
			ts = time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, timeLocation)
		}
		if ts.After(end) {
			break
		}
		timestamps = append(timestamps, ts)
	}

	if len(timestamps) == 0 {
		return nil, nil
	}

	pipe := RedisClient().Pipeline()
	var cmds []*redis.StringStringMapCmd
	for _, ts := range timestamps {
		cmds = append(cmds, pipe.HGetAll(ctx, GetRedisKey(activityKeyTempl, frequency, agg, ts.Unix())))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "exec error")
	}

	out := make([]ActivityRecord, 0, len(timestamps))
	for i, ts := range timestamps {
		rec := ActivityRecord{
			Time:     ts,
			Counters: make(map[string]float64),
		}

		for k, v := range cmds[i].Val() {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Wrap(err, "parse float error")
			}
			rec.Counters[k] = f
		}

		out = append(out, rec)
	}

	return out, nil
}

// truncate truncates the given timestamp to the precision of the given
// aggregation interval.
func truncate(t time.Time, agg AggregationInterval) (time.Time, error) {
	t = t.In(timeLocation)
	switch agg {
	case AggregationMinute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, timeLocation), nil
	case AggregationHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, timeLocation), nil
	case AggregationDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, timeLocation), nil
	default:
		return t, fmt.Errorf("unexpected aggregation interval: %s", agg)
	}
}
