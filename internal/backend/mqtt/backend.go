package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"io/ioutil"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/backend"
	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/events"
)

// Backend implements a MQTT event backend.
type Backend struct {
	wg sync.WaitGroup

	conn    paho.Client
	handler backend.EventHandler

	eventTopic string
	qos        uint8
}

// NewBackend creates a new Backend.
func NewBackend(c config.Config, h backend.EventHandler) (backend.Backend, error) {
	conf := c.Backend.MQTT

	b := Backend{
		handler:    h,
		eventTopic: conf.EventTopic,
		qos:        conf.QOS,
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(conf.Server)
	opts.SetUsername(conf.Username)
	opts.SetPassword(conf.Password)
	opts.SetCleanSession(conf.CleanSession)
	opts.SetClientID(conf.ClientID)
	opts.SetOnConnectHandler(b.onConnected)
	opts.SetConnectionLostHandler(b.onConnectionLost)
	opts.SetAutoReconnect(true)
	if conf.MaxReconnectInterval != 0 {
		opts.SetMaxReconnectInterval(conf.MaxReconnectInterval)
	}

	tlsconfig, err := newTLSConfig(conf.CACert, conf.TLSCert, conf.TLSKey)
	if err != nil {
		return nil, errors.Wrap(err, "backend/mqtt: load tls configuration error")
	}
	if tlsconfig != nil {
		opts.SetTLSConfig(tlsconfig)
	}

	log.WithField("server", conf.Server).Info("backend/mqtt: connecting to mqtt broker")
	b.conn = paho.NewClient(opts)
	for {
		if token := b.conn.Connect(); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("backend/mqtt: connecting to mqtt broker failed, will retry in 2s")
			time.Sleep(2 * time.Second)
		} else {
			break
		}
	}

	return &b, nil
}

// Close closes the backend.
func (b *Backend) Close() error {
	log.Info("backend/mqtt: closing backend")

	log.WithField("topic", b.eventTopic).Info("backend/mqtt: unsubscribing from event topic")
	if token := b.conn.Unsubscribe(b.eventTopic); token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "backend/mqtt: unsubscribe from %s error", b.eventTopic)
	}

	log.Info("backend/mqtt: handling last events")
	b.wg.Wait()
	b.conn.Disconnect(250)
	return nil
}

func (b *Backend) eventHandler(c paho.Client, msg paho.Message) {
	b.wg.Add(1)
	defer b.wg.Done()

	typ := eventTypeFromTopic(msg.Topic())
	mqttEventCounter(string(typ)).Inc()

	log.WithFields(log.Fields{
		"topic": msg.Topic(),
		"type":  typ,
	}).Debug("backend/mqtt: event received")

	if err := b.handler.Handle(context.Background(), typ, msg.Payload()); err != nil {
		log.WithFields(log.Fields{
			"topic":       msg.Topic(),
			"type":        typ,
			"data_base64": base64.StdEncoding.EncodeToString(msg.Payload()),
		}).WithError(err).Error("backend/mqtt: handle event error")
	}
}

func (b *Backend) onConnected(c paho.Client) {
	mqttConnectCounter().Inc()
	log.Info("backend/mqtt: connected to mqtt broker")

	for {
		log.WithFields(log.Fields{
			"topic": b.eventTopic,
			"qos":   b.qos,
		}).Info("backend/mqtt: subscribing to event topic")
		if token := c.Subscribe(b.eventTopic, b.qos, b.eventHandler); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithFields(log.Fields{
				"topic": b.eventTopic,
				"qos":   b.qos,
			}).Error("backend/mqtt: subscribe error")
			time.Sleep(time.Second)
			continue
		}
		return
	}
}

func (b *Backend) onConnectionLost(c paho.Client, err error) {
	mqttDisconnectCounter().Inc()
	log.WithError(err).Error("backend/mqtt: mqtt connection error")
}

// eventTypeFromTopic returns the last topic level, e.g. "radio/event/ptt"
// returns "ptt".
func eventTypeFromTopic(topic string) events.Type {
	parts := strings.Split(topic, "/")
	return events.Type(parts[len(parts)-1])
}

func newTLSConfig(cafile, certFile, certKeyFile string) (*tls.Config, error) {
	if cafile == "" && certFile == "" && certKeyFile == "" {
		return nil, nil
	}

	tlsConfig := &tls.Config{}

	if cafile != "" {
		cacert, err := ioutil.ReadFile(cafile)
		if err != nil {
			return nil, errors.Wrap(err, "load ca certificate error")
		}
		certpool := x509.NewCertPool()
		certpool.AppendCertsFromPEM(cacert)

		tlsConfig.RootCAs = certpool
	}

	if certFile != "" && certKeyFile != "" {
		kp, err := tls.LoadX509KeyPair(certFile, certKeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "load tls key-pair error")
		}
		tlsConfig.Certificates = []tls.Certificate{kp}
	}

	return tlsConfig, nil
}
