package amqp

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/atcvoice/radio-registry/internal/backend"
	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/events"
)

// Backend implements an AMQP event backend.
type Backend struct {
	wg     sync.WaitGroup
	chPool *channelPool

	handler backend.EventHandler

	eventQueueName  string
	eventRoutingKey string
}

// NewBackend creates a new Backend.
func NewBackend(c config.Config, h backend.EventHandler) (backend.Backend, error) {
	var err error
	conf := c.Backend.AMQP

	b := Backend{
		handler:         h,
		eventQueueName:  conf.EventQueueName,
		eventRoutingKey: conf.EventRoutingKey,
	}

	log.Info("backend/amqp: connecting to AMQP server")
	b.chPool, err = dialChannelPool(conf.URL, consumerChannels)
	if err != nil {
		return nil, errors.Wrap(err, "new amqp channel pool error")
	}

	if err := b.setupQueue(); err != nil {
		b.chPool.close()
		return nil, errors.Wrap(err, "backend/amqp: setup queue error")
	}

	b.wg.Add(1)
	go b.eventLoop()

	return &b, nil
}

// Close closes the backend.
func (b *Backend) Close() error {
	log.Info("backend/amqp: closing backend")
	err := b.chPool.close()
	b.wg.Wait()
	return err
}

func (b *Backend) setupQueue() (err error) {
	ch, err := b.chPool.acquire()
	if err != nil {
		return errors.Wrap(err, "open channel error")
	}
	defer func() {
		b.chPool.release(ch, err != nil)
	}()

	_, err = ch.QueueDeclare(
		b.eventQueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "declare queue error")
	}

	err = ch.QueueBind(
		b.eventQueueName,
		b.eventRoutingKey,
		"amq.topic",
		false,
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "bind queue error")
	}

	return nil
}

func (b *Backend) eventLoop() {
	defer b.wg.Done()

	for {
		err := func() error {
			ch, err := b.chPool.acquire()
			if err != nil {
				return errors.Wrap(err, "acquire amqp channel error")
			}

			log.Info("backend/amqp: start consuming events")

			msgs, err := ch.Consume(
				b.eventQueueName,
				"",
				true,
				false,
				false,
				false,
				nil,
			)
			if err != nil {
				b.chPool.release(ch, true)
				return errors.Wrap(err, "register consumer error")
			}

			for msg := range msgs {
				b.handleEvent(msg)
			}

			// a channel whose deliveries stopped is not reused
			b.chPool.release(ch, true)
			return nil
		}()
		if err != nil {
			if errors.Cause(err) == errClosed {
				return
			}

			log.WithError(err).Error("backend/amqp: event loop error")
			time.Sleep(time.Second)
			continue
		}

		// the delivery channel was closed, stop when the pool has been closed
		if b.chPool.isClosed() {
			return
		}
	}
}

func (b *Backend) handleEvent(msg amqp.Delivery) {
	typ := eventTypeFromRoutingKey(msg.RoutingKey)
	amqpEventCounter(string(typ)).Inc()

	log.WithFields(log.Fields{
		"routing_key": msg.RoutingKey,
		"type":        typ,
	}).Debug("backend/amqp: event received")

	if err := b.handler.Handle(context.Background(), typ, msg.Body); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"type":        typ,
			"routing_key": msg.RoutingKey,
		}).Error("backend/amqp: handle event error")
	}
}

// eventTypeFromRoutingKey returns the last routing-key word, e.g.
// "radio.event.rx_begin" returns "rx_begin".
func eventTypeFromRoutingKey(routingKey string) events.Type {
	routing := strings.Split(routingKey, ".")
	return events.Type(routing[len(routing)-1])
}
