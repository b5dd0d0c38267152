// Package transport implements the hub's connection engine: a single
// framed Connection over one byte stream, a Pool of accepted peers with
// atomic broadcast, and a reconnecting Outgoing client. internal/hub
// drives all three uniformly.
package transport

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/bramburn/gnsshub/internal/envelope"
)

// Connection combines an envelope.Decoder and envelope.Encoder over one
// bidirectional byte stream. A background goroutine drains Decoder.Next
// into Messages(); callers send via Send/WriteMessage from any goroutine.
type Connection struct {
	id   string
	conn net.Conn
	enc  *envelope.Encoder

	msgs chan []byte
	errc chan error

	closeOnce sync.Once
	done      chan struct{}
}

// NewConnection wraps conn, enabling TCP_NODELAY when conn is a *net.TCPConn,
// and starts the background read loop.
func NewConnection(conn net.Conn) *Connection {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	c := &Connection{
		id:   uuid.NewString(),
		conn: conn,
		enc:  envelope.NewEncoder(conn),
		msgs: make(chan []byte, 16),
		errc: make(chan error, 1),
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// ID returns the connection's unique identifier, used to correlate log
// lines about the same peer.
func (c *Connection) ID() string { return c.id }

// RemoteAddr reports the peer's network address.
func (c *Connection) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *Connection) readLoop() {
	defer close(c.msgs)
	dec := envelope.NewDecoder(c.conn)
	for {
		payload, err := dec.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case c.errc <- err:
				default:
				}
			}
			return
		}
		select {
		case c.msgs <- payload:
		case <-c.done:
			return
		}
	}
}

// Messages yields inbound payloads in arrival order. The channel closes when
// the peer disconnects (cleanly or otherwise); check Err() to tell which.
func (c *Connection) Messages() <-chan []byte { return c.msgs }

// Err carries the read error, if any, that closed Messages(). Unbuffered
// beyond one slot; a clean close never sends here.
func (c *Connection) Err() <-chan error { return c.errc }

// Send writes one framed payload without an explicit flush (net.Conn writes
// are unbuffered, so this already reaches the wire).
func (c *Connection) Send(payload []byte) error {
	return c.enc.Write(payload)
}

// WriteMessage writes one framed payload and flushes.
func (c *Connection) WriteMessage(payload []byte) error {
	if err := c.enc.Write(payload); err != nil {
		return err
	}
	return envelope.Flush(c.conn)
}

// Close tears down the read loop and the underlying socket. Safe to call
// more than once.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return c.conn.Close()
}
