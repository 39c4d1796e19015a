package cmd

import (
	"os"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/atcvoice/radio-registry/internal/config"
)

const configTemplate = `[general]
# Log level
#
# debug=5, info=4, warning=3, error=2, fatal=1, panic=0
log_level={{ .General.LogLevel }}

# Log in JSON format.
log_json={{ .General.LogJSON }}

# Log to syslog.
#
# When set to true, log messages are being written to syslog.
log_to_syslog={{ .General.LogToSyslog }}

  # Log file.
  #
  # When a path is set, log messages are written to this file instead of
  # stderr. The file is rotated once it reaches max_size megabytes.
  [general.log_file]
  path="{{ .General.LogFile.Path }}"
  max_size={{ .General.LogFile.MaxSize }}
  max_backups={{ .General.LogFile.MaxBackups }}

  # Maximum number of days to keep rotated files.
  max_age={{ .General.LogFile.MaxAge }}

  # Gzip rotated files.
  compress={{ .General.LogFile.Compress }}


# Session settings.
[session]
# Station callsign of the local operator (e.g. EGLL_GND).
#
# The radios are ordered relative to this callsign and transmissions
# received from this callsign are not recorded as last received callsign.
callsign="{{ .Session.Callsign }}"


# Redis settings
#
# When no servers are configured, the registry state is not published.
[redis]
# Server address or addresses.
#
# Set multiple addresses when connecting to a cluster or sentinel setup.
servers=[{{ range $index, $element := .Redis.Servers }}{{ if $index }}, {{ end }}"{{ $element }}"{{ end }}]

# Redis Cluster.
#
# Set this to true when the provided URLs are pointing to a Redis Cluster
# instance.
cluster={{ .Redis.Cluster }}

# Master name.
#
# Set the master name when the provided URLs are pointing to a Redis Sentinel
# instance.
master_name="{{ .Redis.MasterName }}"

# Connection pool size.
pool_size={{ .Redis.PoolSize }}

# Password.
password="{{ .Redis.Password }}"

# Database index.
database={{ .Redis.Database }}

# Redis TLS.
tls_enabled={{ .Redis.TLSEnabled }}

# Key prefix.
#
# A key prefix can be used to run multiple registries against the same
# Redis instance.
key_prefix="{{ .Redis.KeyPrefix }}"

# TTL of the stored registry state.
state_ttl="{{ .Redis.StateTTL }}"


# Event backend configuration.
[backend]
# Backend type.
#
# Valid options are:
#   * mqtt
#   * amqp
#   * none
type="{{ .Backend.Type }}"

  # MQTT event backend.
  [backend.mqtt]
  # Event topic.
  #
  # The last topic level is used as event type (e.g. radio/event/rx_begin).
  event_topic="{{ .Backend.MQTT.EventTopic }}"

  # MQTT server (e.g. scheme://host:port where scheme is tcp, ssl or ws)
  server="{{ .Backend.MQTT.Server }}"

  # Connect with the given username (optional)
  username="{{ .Backend.MQTT.Username }}"

  # Connect with the given password (optional)
  password="{{ .Backend.MQTT.Password }}"

  # Maximum interval that will be waited between reconnection attempts when connection is lost.
  # Valid units are 'ms', 's', 'm', 'h'. Note that these values can be combined, e.g. '24h30m15s'.
  max_reconnect_interval="{{ .Backend.MQTT.MaxReconnectInterval }}"

  # Quality of service level
  #
  # 0: at most once
  # 1: at least once
  # 2: exactly once
  #
  # Note: an increase of this value will decrease the performance.
  # For more information: https://www.hivemq.com/blog/mqtt-essentials-part-6-mqtt-quality-of-service-levels
  qos={{ .Backend.MQTT.QOS }}

  # Clean session
  #
  # Set the "clean session" flag in the connect message when this client
  # connects to an MQTT broker. By setting this flag you are indicating
  # that no messages saved by the broker for this client should be delivered.
  clean_session={{ .Backend.MQTT.CleanSession }}

  # Client ID
  #
  # Set the client id to be used by this client when connecting to the MQTT
  # broker. A client id must be no longer than 23 characters. When left blank,
  # a random id will be generated. This requires clean_session=true.
  client_id="{{ .Backend.MQTT.ClientID }}"

  # CA certificate file (optional)
  #
  # Use this when setting up a secure connection (when server uses ssl://...)
  # but the certificate used by the server is not trusted by any CA certificate
  # on the server (e.g. when self generated).
  ca_cert="{{ .Backend.MQTT.CACert }}"

  # TLS certificate file (optional)
  tls_cert="{{ .Backend.MQTT.TLSCert }}"

  # TLS key file (optional)
  tls_key="{{ .Backend.MQTT.TLSKey }}"


  # AMQP / RabbitMQ event backend.
  [backend.amqp]
  # Server URL.
  #
  # See for a specification of all the possible options:
  # https://www.rabbitmq.com/uri-spec.html
  url="{{ .Backend.AMQP.URL }}"

  # Event queue name.
  #
  # This queue will be created when it does not yet exist and is used to
  # queue the events received from the voice network.
  event_queue_name="{{ .Backend.AMQP.EventQueueName }}"

  # Event routing key.
  #
  # This is the event routing-key that the queue will be bound to on the
  # amq.topic exchange. The last word is used as event type.
  event_routing_key="{{ .Backend.AMQP.EventRoutingKey }}"


# Reception activity settings.
#
# The number of received transmissions is aggregated per frequency in Redis.
[activity]
# Timezone.
#
# The timezone used for the aggregation of the activity counters
# (e.g. 'Europe/London'). Use 'Local' for the system timezone.
timezone="{{ .Activity.Timezone }}"

# Aggregation intervals.
#
# Valid options are MINUTE, HOUR and DAY.
aggregation_intervals=[{{ range $index, $element := .Activity.AggregationIntervals }}{{ if $index }}, {{ end }}"{{ $element }}"{{ end }}]

# Aggregation TTLs.
#
# This defines how long the aggregated counters are kept.
minute_aggregation_ttl="{{ .Activity.MinuteAggregationTTL }}"
hour_aggregation_ttl="{{ .Activity.HourAggregationTTL }}"
day_aggregation_ttl="{{ .Activity.DayAggregationTTL }}"


# Monitoring settings.
[monitoring]
# IP:port to bind the monitoring endpoint to.
#
# When left blank, the monitoring endpoint will be disabled.
bind="{{ .Monitoring.Bind }}"

# Prometheus metrics endpoint.
#
# When set to true, Prometheus metrics will be served at '/metrics'.
prometheus_endpoint={{ .Monitoring.PrometheusEndpoint }}

# Healthcheck endpoint.
#
# When set to true, the healthcheck endpoint will be served at '/health'.
healthcheck_endpoint={{ .Monitoring.HealthcheckEndpoint }}
`

var configCmd = &cobra.Command{
	Use:   "configfile",
	Short: "Print the radio-registry configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := template.Must(template.New("config").Parse(configTemplate))
		err := t.Execute(os.Stdout, &config.C)
		if err != nil {
			return errors.Wrap(err, "execute config template error")
		}
		return nil
	},
}
