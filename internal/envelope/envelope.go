// Package envelope implements the 4-byte length-prefixed framing used on
// every inter-node byte stream (TCP, Bluetooth) — never on the serial link
// to the receiver, which carries raw UBX/RTCM/NMEA bytes directly.
package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrTooLarge is returned by Encoder.Write when a payload's length does not
// fit in a uint32.
var ErrTooLarge = errors.New("envelope: payload length exceeds uint32")

// Decoder reads length-prefixed payloads off an io.Reader, accumulating
// partial reads across calls to Next. End-of-stream exactly on a message
// boundary is a clean io.EOF; end of stream with a partial length prefix or
// a partial payload is reported as io.ErrUnexpectedEOF so callers can
// distinguish a clean disconnect from a truncated one.
type Decoder struct {
	r       io.Reader
	buf     []byte
	pending *uint32
	scratch [4096]byte
}

// NewDecoder wraps r for sequential envelope reads.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next complete payload, blocking on reads from the
// underlying reader as needed.
func (d *Decoder) Next() ([]byte, error) {
	for {
		if d.pending == nil && len(d.buf) >= 4 {
			n := binary.LittleEndian.Uint32(d.buf[:4])
			d.buf = d.buf[4:]
			d.pending = &n
		}
		if d.pending != nil && uint32(len(d.buf)) >= *d.pending {
			n := *d.pending
			payload := make([]byte, n)
			copy(payload, d.buf[:n])
			d.buf = d.buf[n:]
			d.pending = nil
			return payload, nil
		}

		n, err := d.r.Read(d.scratch[:])
		if n > 0 {
			d.buf = append(d.buf, d.scratch[:n]...)
			continue // a short read can still complete a message
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if d.pending == nil && len(d.buf) == 0 {
					return nil, io.EOF
				}
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}

// Encoder writes length-prefixed payloads to an io.Writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for sequential envelope writes.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Write emits the 4-byte little-endian length prefix followed by payload.
func (e *Encoder) Write(payload []byte) error {
	if len(payload) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := e.w.Write(hdr[:]); err != nil {
		return fmt.Errorf("envelope: writing length prefix: %w", err)
	}
	if _, err := e.w.Write(payload); err != nil {
		return fmt.Errorf("envelope: writing payload: %w", err)
	}
	return nil
}

// flusher is satisfied by writers (such as bufio.Writer) that buffer output.
type flusher interface {
	Flush() error
}

// Flush flushes w if it buffers output, otherwise is a no-op.
func Flush(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
