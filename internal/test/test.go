// Package test contains the shared test configuration.
package test

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/config"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// GetConfig returns the test configuration. The Redis, MQTT and AMQP
// settings are taken from the TEST_REDIS_URL, TEST_MQTT_SERVER and
// TEST_AMQP_URL environment variables and are empty when unset.
func GetConfig() config.Config {
	log.SetLevel(log.ErrorLevel)

	var c config.Config
	c.Session.Callsign = "EGLL_GND"
	c.Redis.KeyPrefix = "test:"
	c.Redis.StateTTL = time.Minute
	c.Activity.Timezone = "UTC"
	c.Activity.AggregationIntervals = []string{"MINUTE", "HOUR", "DAY"}
	c.Activity.MinuteAggregationTTL = time.Hour
	c.Activity.HourAggregationTTL = time.Hour * 24
	c.Activity.DayAggregationTTL = time.Hour * 24 * 7

	if v := os.Getenv("TEST_REDIS_URL"); v != "" {
		opt, err := redis.ParseURL(v)
		if err != nil {
			panic(err)
		}
		c.Redis.Servers = []string{opt.Addr}
		c.Redis.Database = opt.DB
		c.Redis.Password = opt.Password
	}

	if v := os.Getenv("TEST_MQTT_SERVER"); v != "" {
		c.Backend.MQTT.Server = v
		c.Backend.MQTT.EventTopic = "test/radio/event/+"
		c.Backend.MQTT.CleanSession = true
	}

	if v := os.Getenv("TEST_AMQP_URL"); v != "" {
		c.Backend.AMQP.URL = v
		c.Backend.AMQP.EventQueueName = "test-radio-events"
		c.Backend.AMQP.EventRoutingKey = "test.radio.event.*"
	}

	return c
}

// MustFlushRedis flushes the Redis storage.
func MustFlushRedis(c redis.UniversalClient) {
	if err := c.FlushAll(context.Background()).Err(); err != nil {
		log.Fatal(err)
	}
}
