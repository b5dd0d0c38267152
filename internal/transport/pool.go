package transport

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrBroadcastInFlight is returned by Broadcast when a prior Broadcast call
// has not yet finished offering its payload to every peer. Callers must
// await completion before submitting another payload.
var ErrBroadcastInFlight = errors.New("transport: broadcast already in flight")

// Pool owns a listener and the set of currently accepted Connections. It
// eagerly accepts new peers, fans inbound payloads from all of them into one
// Source channel, and delivers Broadcast payloads to every live peer with
// per-peer failure isolation — a peer error removes that peer but never
// fails the pool itself.
type Pool struct {
	listener net.Listener
	logger   logrus.FieldLogger

	mu    sync.Mutex
	conns []*Connection

	source chan []byte

	broadcastMu sync.Mutex
}

// NewPool starts accepting connections on listener.
func NewPool(listener net.Listener, logger logrus.FieldLogger) *Pool {
	p := &Pool{
		listener: listener,
		logger:   logger,
		source:   make(chan []byte),
	}
	go p.acceptLoop()
	return p
}

func (p *Pool) acceptLoop() {
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			p.logger.WithError(err).Info("transport: pool listener stopped accepting")
			return
		}
		c := NewConnection(conn)
		p.logger.WithFields(logrus.Fields{
			"conn_id": c.ID(),
			"remote":  c.RemoteAddr(),
		}).Info("transport: accepted peer")
		p.mu.Lock()
		p.conns = append(p.conns, c)
		p.mu.Unlock()
		go p.fanIn(c)
	}
}

func (p *Pool) fanIn(c *Connection) {
	for payload := range c.Messages() {
		p.source <- payload
	}
	select {
	case err := <-c.Err():
		p.logger.WithError(err).WithField("conn_id", c.ID()).Warn("transport: peer connection dropped")
	default:
		p.logger.WithField("conn_id", c.ID()).Debug("transport: peer connection closed cleanly")
	}
	p.remove(c)
}

func (p *Pool) remove(c *Connection) {
	p.mu.Lock()
	for i, x := range p.conns {
		if x == c {
			p.conns = append(p.conns[:i], p.conns[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	c.Close()
}

// Source yields one inbound payload at a time from any connected peer; no
// fairness guarantee beyond Go's pseudo-random select over ready senders.
func (p *Pool) Source() <-chan []byte { return p.source }

// Broadcast delivers payload to every peer currently in the pool. A peer
// whose write fails is logged and removed rather than failing the call.
// Broadcast blocks until every live peer has been offered the payload; a
// second Broadcast call made while one is still in flight returns
// ErrBroadcastInFlight immediately rather than queuing.
func (p *Pool) Broadcast(payload []byte) error {
	if !p.broadcastMu.TryLock() {
		return ErrBroadcastInFlight
	}
	defer p.broadcastMu.Unlock()

	p.mu.Lock()
	conns := make([]*Connection, len(p.conns))
	copy(conns, p.conns)
	p.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(payload); err != nil {
			p.logger.WithError(err).WithField("conn_id", c.ID()).Warn("transport: broadcast write failed, dropping peer")
			p.remove(c)
		}
	}
	return nil
}

// Flush is a no-op: every Connection write already reaches the wire
// unbuffered. Kept so the hub loop can flush the pool uniformly with
// other sinks.
func (p *Pool) Flush() error { return nil }

// Len reports the number of currently connected peers.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Close stops accepting new peers and closes every currently connected one.
func (p *Pool) Close() error {
	err := p.listener.Close()
	p.mu.Lock()
	conns := p.conns
	p.conns = nil
	p.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
	if err != nil {
		return fmt.Errorf("transport: closing pool listener: %w", err)
	}
	return nil
}
