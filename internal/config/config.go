package config

import (
	"time"
)

// Version defines the radio-registry version.
var Version string

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel    int  `mapstructure:"log_level"`
		LogJSON     bool `mapstructure:"log_json"`
		LogToSyslog bool `mapstructure:"log_to_syslog"`

		LogFile struct {
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
			Compress   bool   `mapstructure:"compress"`
		} `mapstructure:"log_file"`
	} `mapstructure:"general"`

	Session struct {
		Callsign string `mapstructure:"callsign"`
	} `mapstructure:"session"`

	Redis struct {
		URL        string        `mapstructure:"url"` // deprecated
		Servers    []string      `mapstructure:"servers"`
		Cluster    bool          `mapstructure:"cluster"`
		MasterName string        `mapstructure:"master_name"`
		PoolSize   int           `mapstructure:"pool_size"`
		Password   string        `mapstructure:"password"`
		Database   int           `mapstructure:"database"`
		TLSEnabled bool          `mapstructure:"tls_enabled"`
		KeyPrefix  string        `mapstructure:"key_prefix"`
		StateTTL   time.Duration `mapstructure:"state_ttl"`
	} `mapstructure:"redis"`

	Backend struct {
		Type string `mapstructure:"type"`

		MQTT struct {
			Server               string        `mapstructure:"server"`
			Username             string        `mapstructure:"username"`
			Password             string        `mapstructure:"password"`
			QOS                  uint8         `mapstructure:"qos"`
			CleanSession         bool          `mapstructure:"clean_session"`
			ClientID             string        `mapstructure:"client_id"`
			CACert               string        `mapstructure:"ca_cert"`
			TLSCert              string        `mapstructure:"tls_cert"`
			TLSKey               string        `mapstructure:"tls_key"`
			EventTopic           string        `mapstructure:"event_topic"`
			MaxReconnectInterval time.Duration `mapstructure:"max_reconnect_interval"`
		} `mapstructure:"mqtt"`

		AMQP struct {
			URL             string `mapstructure:"url"`
			EventQueueName  string `mapstructure:"event_queue_name"`
			EventRoutingKey string `mapstructure:"event_routing_key"`
		} `mapstructure:"amqp"`
	} `mapstructure:"backend"`

	Activity struct {
		Timezone             string        `mapstructure:"timezone"`
		AggregationIntervals []string      `mapstructure:"aggregation_intervals"`
		MinuteAggregationTTL time.Duration `mapstructure:"minute_aggregation_ttl"`
		HourAggregationTTL   time.Duration `mapstructure:"hour_aggregation_ttl"`
		DayAggregationTTL    time.Duration `mapstructure:"day_aggregation_ttl"`
	} `mapstructure:"activity"`

	Monitoring struct {
		Bind                string `mapstructure:"bind"`
		PrometheusEndpoint  bool   `mapstructure:"prometheus_endpoint"`
		HealthcheckEndpoint bool   `mapstructure:"healthcheck_endpoint"`
	} `mapstructure:"monitoring"`
}

// C holds the global configuration.
var C Config

// Get returns the configuration.
func Get() Config {
	return C
}

// Set sets the configuration.
func Set(c Config) {
	C = c
}
