// Package cfgtxn drives the chunked CFG-VALSET/VALGET configuration
// transaction, correlating the device's ACK/NAK traffic with the
// transaction that provoked it. At most one transaction may be in flight
// per Transactor — the pending-ACK slot is a single cell per device.
package cfgtxn

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/cfgval"
	"github.com/bramburn/gnsshub/internal/msg"
)

// chunkSize is the maximum number of key/value pairs per VALSET/VALGET
// request.
const chunkSize = 64

// Device is the write side of the receiver link a Transactor drives.
type Device interface {
	Write(p []byte) (int, error)
}

// Transactor chunks SET/GET requests, writes them to Device, and
// correlates the response against a stream of already-parsed device
// traffic (Incoming — typically fed by internal/hub's serial framing).
type Transactor struct {
	mu       sync.Mutex
	device   Device
	incoming <-chan msg.Message
	logger   logrus.FieldLogger
}

// New returns a Transactor writing requests to device and reading
// responses from incoming, which must carry every frame the receiver
// sends (ACKs, NAKs, and anything else — non-matching traffic is ignored
// and logged, never consumed silently without a trace).
func New(device Device, incoming <-chan msg.Message, logger logrus.FieldLogger) *Transactor {
	return &Transactor{device: device, incoming: incoming, logger: logger}
}

// Set applies values to layers in chunks of at most 64, sending one
// CFG-VALSET per chunk and waiting for its ACK before sending the next.
// A NAK for (0x06, 0x8A) aborts the whole operation immediately — no
// further VALSET chunks are sent.
func (t *Transactor) Set(ctx context.Context, layers cfgval.BitLayer, values []cfgval.Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, chunk := range chunkValues(values, chunkSize) {
		req := msg.NewCfgValSetRequest(layers, chunk)
		frame := &msg.UbxFrame{Class: msg.ClassCfg, ID: msg.CfgValSetID, Body: req}
		if _, err := t.device.Write(frame.ParseWrite()); err != nil {
			return fmt.Errorf("cfgtxn: writing CFG-VALSET: %w", err)
		}
		if err := t.awaitAck(ctx, msg.ClassCfg, msg.CfgValSetID); err != nil {
			return err
		}
	}
	return nil
}

// Get requests values for keys from layer, in chunks of at most 64,
// returning the typed Values the receiver reports. A NAK for
// (0x06, 0x8B) aborts and returns an error surfacing the NAK.
func (t *Transactor) Get(ctx context.Context, layer cfgval.Layer, keys []cfgval.Key) ([]cfgval.Value, error) {
	if !layer.Valid() {
		return nil, fmt.Errorf("cfgtxn: layer %d is not a valid GET scalar layer", layer)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var out []cfgval.Value
	for _, chunk := range chunkKeys(keys, chunkSize) {
		req := msg.NewCfgValGetRequest(layer, chunk)
		frame := &msg.UbxFrame{Class: msg.ClassCfg, ID: msg.CfgValGetID, Body: req}
		if _, err := t.device.Write(frame.ParseWrite()); err != nil {
			return nil, fmt.Errorf("cfgtxn: writing CFG-VALGET: %w", err)
		}
		values, err := t.awaitValGetResponse(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, values...)
	}
	return out, nil
}

// awaitAck blocks until a matching ACK (success) or NAK (abort, returns an
// error) for (class, id) arrives on t.incoming. Unrelated traffic is
// logged and dropped: a message read here is no longer available to any
// other reader of t.incoming.
func (t *Transactor) awaitAck(ctx context.Context, class, id byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-t.incoming:
			if !ok {
				return fmt.Errorf("cfgtxn: device link closed while awaiting ack for class=%#x id=%#x", class, id)
			}
			frame, isUbx := m.(*msg.UbxFrame)
			if !isUbx {
				t.logger.WithField("kind", m.Kind()).Debug("cfgtxn: ignoring traffic unrelated to pending ack")
				continue
			}
			ack, positive, isAck := frame.IsAck()
			if !isAck || ack.ClsID != class || ack.MsgID != id {
				t.logger.WithField("kind", m.Kind()).Debug("cfgtxn: ignoring traffic unrelated to pending ack")
				continue
			}
			if positive {
				return nil
			}
			return fmt.Errorf("cfgtxn: receiver NAKed class=%#x id=%#x", class, id)
		}
	}
}

// awaitValGetResponse blocks for a CFG-VALGET response frame, or a NAK for
// (0x06, 0x8B) which aborts with an error.
func (t *Transactor) awaitValGetResponse(ctx context.Context) ([]cfgval.Value, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case m, ok := <-t.incoming:
			if !ok {
				return nil, fmt.Errorf("cfgtxn: device link closed while awaiting CFG-VALGET response")
			}
			frame, isUbx := m.(*msg.UbxFrame)
			if !isUbx {
				t.logger.WithField("kind", m.Kind()).Debug("cfgtxn: ignoring traffic unrelated to pending valget")
				continue
			}
			if ack, positive, isAck := frame.IsAck(); isAck {
				if ack.ClsID == msg.ClassCfg && ack.MsgID == msg.CfgValGetID && !positive {
					return nil, fmt.Errorf("cfgtxn: receiver NAKed CFG-VALGET")
				}
				t.logger.WithField("kind", m.Kind()).Debug("cfgtxn: ignoring traffic unrelated to pending valget")
				continue
			}
			g, isGet := frame.Body.(*msg.CfgValGet)
			if !isGet || frame.Class != msg.ClassCfg || frame.ID != msg.CfgValGetID || g.Values == nil {
				t.logger.WithField("kind", m.Kind()).Debug("cfgtxn: ignoring traffic unrelated to pending valget")
				continue
			}
			return g.Values, nil
		}
	}
}

func chunkValues(values []cfgval.Value, size int) [][]cfgval.Value {
	if len(values) == 0 {
		return [][]cfgval.Value{{}}
	}
	var chunks [][]cfgval.Value
	for len(values) > 0 {
		n := size
		if n > len(values) {
			n = len(values)
		}
		chunks = append(chunks, values[:n])
		values = values[n:]
	}
	return chunks
}

func chunkKeys(keys []cfgval.Key, size int) [][]cfgval.Key {
	if len(keys) == 0 {
		return [][]cfgval.Key{{}}
	}
	var chunks [][]cfgval.Key
	for len(keys) > 0 {
		n := size
		if n > len(keys) {
			n = len(keys)
		}
		chunks = append(chunks, keys[:n])
		keys = keys[n:]
	}
	return chunks
}
