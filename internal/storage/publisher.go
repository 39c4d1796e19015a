package storage

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/radio"
)

const publishTimeout = 5 * time.Second

// StateSource provides the registry states to publish.
type StateSource interface {
	Snapshot() radio.State
	Subscribe(fn func(radio.State)) func()
}

// StatePublisher saves and publishes every registry state. When the
// registry changes faster than Redis can be written, only the latest
// pending state is written.
type StatePublisher struct {
	wg          sync.WaitGroup
	pending     chan radio.State
	done        chan struct{}
	unsubscribe func()
}

// NewStatePublisher creates a StatePublisher for the given source and
// publishes its current state.
func NewStatePublisher(src StateSource) *StatePublisher {
	p := StatePublisher{
		pending: make(chan radio.State, 1),
		done:    make(chan struct{}),
	}

	p.pending <- src.Snapshot()
	p.unsubscribe = src.Subscribe(p.enqueue)

	p.wg.Add(1)
	go p.loop()

	return &p
}

// Close stops the publisher, after writing the pending state.
func (p *StatePublisher) Close() error {
	log.Info("storage: closing registry state publisher")
	p.unsubscribe()
	close(p.done)
	p.wg.Wait()
	return nil
}

// enqueue replaces the pending state. It is only called by the registry,
// which delivers one state at a time.
func (p *StatePublisher) enqueue(s radio.State) {
	select {
	case p.pending <- s:
	default:
		select {
		case <-p.pending:
		default:
		}
		p.pending <- s
	}
}

func (p *StatePublisher) loop() {
	defer p.wg.Done()

	for {
		select {
		case s := <-p.pending:
			p.write(s)
		case <-p.done:
			select {
			case s := <-p.pending:
				p.write(s)
			default:
			}
			return
		}
	}
}

func (p *StatePublisher) write(s radio.State) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := SaveState(ctx, s); err != nil {
		log.WithError(err).Error("storage: save registry state error")
		return
	}

	if err := PublishState(ctx, s); err != nil {
		log.WithError(err).Error("storage: publish registry state error")
	}
}
