package transport

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// outgoingBackoff is the fixed reconnect interval.
const outgoingBackoff = 500 * time.Millisecond

// Outgoing is a reconnecting single-peer TCP client driven by a goroutine:
// with no address it parks indefinitely (the "server without upstream"
// case); with one, it dials, drains Messages until the peer goes away,
// then backs off 500 ms and retries.
type Outgoing struct {
	dial   func(addr string) (net.Conn, error)
	logger logrus.FieldLogger

	mu   sync.Mutex
	addr string
	conn *Connection

	msgs chan []byte
	stop chan struct{}
}

// NewOutgoing starts the reconnect driver for addr (empty parks the client
// until SetAddr is called).
func NewOutgoing(addr string, logger logrus.FieldLogger) *Outgoing {
	o := &Outgoing{
		dial:   func(a string) (net.Conn, error) { return net.Dial("tcp", a) },
		logger: logger,
		addr:   addr,
		msgs:   make(chan []byte),
		stop:   make(chan struct{}),
	}
	go o.run()
	return o
}

// SetAddr changes the upstream address; the driver notices on its next
// reconnect attempt. Passing "" parks the client.
func (o *Outgoing) SetAddr(addr string) {
	o.mu.Lock()
	o.addr = addr
	o.mu.Unlock()
}

func (o *Outgoing) currentAddr() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addr
}

func (o *Outgoing) run() {
	for {
		select {
		case <-o.stop:
			return
		default:
		}

		addr := o.currentAddr()
		if addr == "" {
			if !o.sleep(outgoingBackoff) {
				return
			}
			continue
		}

		conn, err := o.dial(addr)
		if err != nil {
			o.logger.WithError(err).WithField("addr", addr).Debug("transport: outgoing connect failed")
			if !o.sleep(outgoingBackoff) {
				return
			}
			continue
		}

		c := NewConnection(conn)
		o.mu.Lock()
		o.conn = c
		o.mu.Unlock()

		o.drain(c)

		o.mu.Lock()
		if o.conn == c {
			o.conn = nil
		}
		o.mu.Unlock()

		if !o.sleep(outgoingBackoff) {
			return
		}
	}
}

func (o *Outgoing) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-o.stop:
		return false
	}
}

func (o *Outgoing) drain(c *Connection) {
	for {
		select {
		case payload, ok := <-c.Messages():
			if !ok {
				return
			}
			select {
			case o.msgs <- payload:
			case <-o.stop:
				return
			}
		case <-c.Err():
			return
		case <-o.stop:
			return
		}
	}
}

// Messages yields inbound payloads from whichever connection is currently
// live; the channel never closes on its own (reconnects transparently).
func (o *Outgoing) Messages() <-chan []byte { return o.msgs }

// TrySendMessage attempts a synchronous write while connected. On write
// error (or while not connected) it returns false; the driver goroutine
// notices the dead connection independently and backs off.
func (o *Outgoing) TrySendMessage(payload []byte) bool {
	o.mu.Lock()
	c := o.conn
	o.mu.Unlock()
	if c == nil {
		return false
	}
	if err := c.WriteMessage(payload); err != nil {
		o.mu.Lock()
		if o.conn == c {
			o.conn = nil
		}
		o.mu.Unlock()
		c.Close()
		return false
	}
	return true
}

// Close stops the reconnect driver and closes any live connection.
func (o *Outgoing) Close() error {
	close(o.stop)
	o.mu.Lock()
	c := o.conn
	o.conn = nil
	o.mu.Unlock()
	if c != nil {
		return c.Close()
	}
	return nil
}
