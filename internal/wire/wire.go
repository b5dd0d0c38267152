// Package wire implements the little-endian byte primitives shared by every
// message codec in the hub: fixed-width integer reads/writes, tag matching,
// and the checksums UBX and RTCM frames carry.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors returned by Reader methods. Callers match them with
// errors.Is; codecs above this package wrap them with frame-specific context.
var (
	ErrNotEnoughData = errors.New("wire: not enough data")
	ErrInvalidTag    = errors.New("wire: tag mismatch")
)

// Reader is a cursor over a borrowed byte slice. It never copies the
// underlying array; callers that need to retain a read slice past the
// Reader's lifetime must copy it themselves.
type Reader struct {
	b []byte
}

// NewReader wraps b for sequential little-endian reads.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Remaining returns the unread tail of the underlying slice.
func (r *Reader) Remaining() []byte {
	return r.b
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.b)
}

func (r *Reader) need(n int) error {
	if len(r.b) < n {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughData, n, len(r.b))
	}
	return nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.b[0]
	r.b = r.b[1:]
	return v, nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16LE reads a little-endian uint16.
func (r *Reader) ReadU16LE() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.b)
	r.b = r.b[2:]
	return v, nil
}

// ReadI16LE reads a little-endian int16.
func (r *Reader) ReadI16LE() (int16, error) {
	v, err := r.ReadU16LE()
	return int16(v), err
}

// ReadU32LE reads a little-endian uint32.
func (r *Reader) ReadU32LE() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.b)
	r.b = r.b[4:]
	return v, nil
}

// ReadI32LE reads a little-endian int32.
func (r *Reader) ReadI32LE() (int32, error) {
	v, err := r.ReadU32LE()
	return int32(v), err
}

// ReadU64LE reads a little-endian uint64.
func (r *Reader) ReadU64LE() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.b)
	r.b = r.b[8:]
	return v, nil
}

// ReadN reads exactly n raw bytes and returns a copy.
func (r *Reader) ReadN(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.b[:n])
	r.b = r.b[n:]
	return out, nil
}

// ReadTag reads len(want) bytes and fails with ErrInvalidTag if they don't
// match exactly.
func (r *Reader) ReadTag(want []byte) error {
	if err := r.need(len(want)); err != nil {
		return err
	}
	if !bytes.Equal(r.b[:len(want)], want) {
		return fmt.Errorf("%w: want % x, got % x", ErrInvalidTag, want, r.b[:len(want)])
	}
	r.b = r.b[len(want):]
	return nil
}

// Writer accumulates a little-endian encoded frame.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated frame.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteI8 appends one signed byte.
func (w *Writer) WriteI8(v int8) {
	w.buf.WriteByte(byte(v))
}

// WriteU16LE appends a little-endian uint16.
func (w *Writer) WriteU16LE(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf.Write(tmp[:])
}

// WriteI16LE appends a little-endian int16.
func (w *Writer) WriteI16LE(v int16) {
	w.WriteU16LE(uint16(v))
}

// WriteU32LE appends a little-endian uint32.
func (w *Writer) WriteU32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf.Write(tmp[:])
}

// WriteI32LE appends a little-endian int32.
func (w *Writer) WriteI32LE(v int32) {
	w.WriteU32LE(uint32(v))
}

// WriteU64LE appends a little-endian uint64.
func (w *Writer) WriteU64LE(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf.Write(tmp[:])
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// Fletcher8 computes the UBX 8-bit Fletcher checksum over b, returning
// (ck_a, ck_b).
func Fletcher8(b []byte) (ckA, ckB byte) {
	for _, c := range b {
		ckA += c
		ckB += ckA
	}
	return ckA, ckB
}
