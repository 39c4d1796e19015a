package storage

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/config"
)

var (
	redisClient redis.UniversalClient

	// keyPrefix is prepended to every Redis key.
	keyPrefix string

	// stateTTL holds the TTL of the stored registry state.
	stateTTL time.Duration
)

// Setup configures the storage backend. When no Redis server is configured,
// the storage backend stays disabled.
func Setup(c config.Config) error {
	log.Info("storage: setting up storage module")

	keyPrefix = c.Redis.KeyPrefix
	stateTTL = c.Redis.StateTTL

	if err := setupActivity(
		c.Activity.Timezone,
		c.Activity.AggregationIntervals,
		c.Activity.MinuteAggregationTTL,
		c.Activity.HourAggregationTTL,
		c.Activity.DayAggregationTTL,
	); err != nil {
		return errors.Wrap(err, "setup activity aggregation error")
	}

	if len(c.Redis.Servers) == 0 {
		log.Info("storage: no redis servers configured, registry state will not be published")
		redisClient = nil
		return nil
	}

	var tlsConfig *tls.Config
	if c.Redis.TLSEnabled {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	log.Info("storage: setting up Redis client")
	if c.Redis.Cluster {
		redisClient = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     c.Redis.Servers,
			PoolSize:  c.Redis.PoolSize,
			Password:  c.Redis.Password,
			TLSConfig: tlsConfig,
		})
	} else if c.Redis.MasterName != "" {
		redisClient = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       c.Redis.MasterName,
			SentinelAddrs:    c.Redis.Servers,
			SentinelPassword: c.Redis.Password,
			DB:               c.Redis.Database,
			PoolSize:         c.Redis.PoolSize,
			TLSConfig:        tlsConfig,
		})
	} else {
		redisClient = redis.NewClient(&redis.Options{
			Addr:      c.Redis.Servers[0],
			DB:        c.Redis.Database,
			Password:  c.Redis.Password,
			PoolSize:  c.Redis.PoolSize,
			TLSConfig: tlsConfig,
		})
	}

	return nil
}

// RedisClient returns the Redis client. It returns nil when storage is
// disabled.
func RedisClient() redis.UniversalClient {
	return redisClient
}

// Enabled returns true when a Redis client has been configured.
func Enabled() bool {
	return redisClient != nil
}

// GetRedisKey returns the Redis key given a template and parameters.
func GetRedisKey(tmpl string, params ...interface{}) string {
	return keyPrefix + fmt.Sprintf(tmpl, params...)
}

// errRedisDisabled is returned when storage functions are called while no
// Redis server has been configured.
var errRedisDisabled = errors.New("storage: redis is not configured")
