// Package hub implements the single cooperative loop at the center of the
// process: it drives the serial device, the connection pool, the outgoing
// connection, and (optionally) Bluetooth, forwarding framed messages
// between them and resyncing the serial stream after corruption.
package hub

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/msg"
	"github.com/bramburn/gnsshub/internal/transport"
)

// resetPortDelay is the fixed delay between closing and reopening the
// serial handle on a ResetPort control frame.
const resetPortDelay = 500 * time.Millisecond

// serialChunkSize is the scratch buffer size for each serial Read call.
const serialChunkSize = 4096

// Device is the hub's one owned serial handle.
type Device interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	// Reopen closes and reopens the device after delay, preserving its
	// original settings. Used for the Server ResetPort control frame.
	Reopen(delay time.Duration) error
}

// Bluetooth is the optional endpoint contract, satisfied by
// internal/transport/bluetooth.Endpoint.
type Bluetooth interface {
	Messages() <-chan []byte
	WriteMessage(payload []byte) error
}

// Hub owns the single loop that multiplexes the serial device, the
// connection pool, the outgoing connection, and (if set) Bluetooth.
type Hub struct {
	Device   Device
	Pool     *transport.Pool
	Outgoing *transport.Outgoing
	Bt       Bluetooth // nil if Bluetooth is disabled
	Logger   logrus.FieldLogger

	// Sideband is a bounded extension point for embedders: every forwarded
	// frame is offered here alongside the other sinks, non-blocking —
	// drops on a full channel are logged, not fatal.
	Sideband chan []byte
}

// New constructs a Hub with a capacity-64 Sideband channel.
func New(device Device, pool *transport.Pool, outgoing *transport.Outgoing, logger logrus.FieldLogger) *Hub {
	return &Hub{
		Device:   device,
		Pool:     pool,
		Outgoing: outgoing,
		Logger:   logger,
		Sideband: make(chan []byte, 64),
	}
}

// Run drives the hub loop until ctx is cancelled, a Quit control frame is
// received (returns nil), or an unrecoverable serial error occurs.
func (h *Hub) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make(chan []byte)
	serialErrs := make(chan error, 1)
	go h.readSerial(ctx, chunks, serialErrs)

	var accum []byte
	var btMsgs <-chan []byte
	if h.Bt != nil {
		btMsgs = h.Bt.Messages()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-serialErrs:
			return fmt.Errorf("hub: serial device read failed: %w", err)

		case chunk := <-chunks:
			accum = append(accum, chunk...)
			if err := h.drainSerial(&accum); err != nil {
				return err
			}

		case payload := <-h.Outgoing.Messages():
			quit, err := h.handlePeerPayload(payload)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case payload := <-h.Pool.Source():
			quit, err := h.handlePeerPayload(payload)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case payload, ok := <-btMsgs:
			if !ok {
				btMsgs = nil
				continue
			}
			quit, err := h.handlePeerPayload(payload)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (h *Hub) readSerial(ctx context.Context, out chan<- []byte, errs chan<- error) {
	buf := make([]byte, serialChunkSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := h.Device.Read(buf)
		if err != nil {
			select {
			case errs <- err:
			default:
			}
			return
		}
		if n == 0 {
			continue // read-timeout tick; nothing arrived yet
		}
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		select {
		case out <- chunk:
		case <-ctx.Done():
			return
		}
	}
}

// drainSerial resyncs accum to the next known prefix, then repeatedly
// splits off and forwards complete messages until none remain.
func (h *Hub) drainSerial(accum *[]byte) error {
	for {
		resynced := resync(*accum)
		if skipped := len(*accum) - len(resynced); skipped > 0 {
			h.Logger.WithField("skipped_bytes", skipped).Debug("hub: resync discarded garbage")
		}
		*accum = resynced

		n, ok := msg.MessageUsage(*accum)
		if !ok || len(*accum) < n {
			return nil
		}
		frame := make([]byte, n)
		copy(frame, (*accum)[:n])
		*accum = (*accum)[n:]
		h.forward(frame)
	}
}

// resync advances b one byte at a time until it begins with a known
// message prefix or is empty.
func resync(b []byte) []byte {
	for len(b) > 0 && !msg.ContainsPrefix(b) {
		b = b[1:]
	}
	return b
}

// forward fans a raw serial frame out to the outgoing connection, the
// optional Bluetooth endpoint, and the pool broadcast, then flushes the
// pool.
func (h *Hub) forward(frame []byte) {
	h.Outgoing.TrySendMessage(frame) // best-effort; reconnect is independent

	if h.Bt != nil {
		if err := h.Bt.WriteMessage(frame); err != nil {
			h.Logger.WithError(err).Debug("hub: bluetooth forward failed")
		}
	}

	if err := h.Pool.Broadcast(frame); err != nil {
		h.Logger.WithError(err).Warn("hub: pool broadcast failed")
	}
	_ = h.Pool.Flush()

	select {
	case h.Sideband <- frame:
	default:
		h.Logger.Debug("hub: sideband channel full, dropping frame")
	}
}

// handlePeerPayload tries a Server control frame first, else writes the
// payload verbatim to the serial device.
func (h *Hub) handlePeerPayload(payload []byte) (quit bool, err error) {
	if server, _, perr := msg.ParseReadServer(payload); perr == nil {
		switch server.Op {
		case msg.ServerQuit:
			h.Logger.Info("hub: received Quit control frame")
			return true, nil
		case msg.ServerResetPort:
			h.Logger.Info("hub: received ResetPort control frame")
			if rerr := h.Device.Reopen(resetPortDelay); rerr != nil {
				return false, fmt.Errorf("hub: reopening serial device: %w", rerr)
			}
		}
		return false, nil
	}

	if _, werr := h.Device.Write(payload); werr != nil {
		return false, fmt.Errorf("hub: writing peer payload to serial device: %w", werr)
	}
	return false, nil
}
