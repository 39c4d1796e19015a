package amqp

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// consumerChannels is the number of channels the backend keeps open: one
// for declaring and binding the event queue and one for the consumer.
const consumerChannels = 2

var errClosed = errors.New("channel pool is closed")

// channelPool opens channels on a single AMQP connection and keeps at most
// max released channels open for reuse.
type channelPool struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	idle   []*amqp.Channel
	max    int
	closed bool
}

func dialChannelPool(url string, max int) (*channelPool, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp url error")
	}

	return &channelPool{
		conn: conn,
		idle: make([]*amqp.Channel, 0, max),
		max:  max,
	}, nil
}

// acquire returns an idle channel, or opens a new one when none is idle.
func (p *channelPool) acquire() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errClosed
	}

	if n := len(p.idle); n > 0 {
		ch := p.idle[n-1]
		p.idle = p.idle[:n-1]
		return ch, nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel error")
	}
	return ch, nil
}

// release hands ch back to the pool. Broken channels, channels released
// after close and channels exceeding max are closed instead.
func (p *channelPool) release(ch *amqp.Channel, broken bool) error {
	if ch == nil {
		return errors.New("channel is nil")
	}

	p.mu.Lock()
	if broken || p.closed || len(p.idle) >= p.max {
		p.mu.Unlock()
		return ch.Close()
	}
	p.idle = append(p.idle, ch)
	p.mu.Unlock()
	return nil
}

func (p *channelPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *channelPool) idleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// close closes the idle channels and the connection. Closing the connection
// also closes the delivery channel of a running consumer.
func (p *channelPool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, ch := range idle {
		ch.Close()
	}
	return p.conn.Close()
}
