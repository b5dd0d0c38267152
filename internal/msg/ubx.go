package msg

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

var ubxHeader = []byte{0xB5, 0x62}

// UBX class bytes modelled by this package.
const (
	ClassNav byte = 0x01
	ClassRxm byte = 0x02
	ClassInf byte = 0x04
	ClassAck byte = 0x05
	ClassCfg byte = 0x06
	ClassMon byte = 0x0A
)

// Body is the decoded payload of a known (class, id) UBX message. Unknown
// code points implement Body as UbxUnknown so bytes always round trip.
type Body interface {
	// ClassID returns the (class, id) pair this body encodes as.
	ClassID() (class, id byte)
	// encode appends this body's payload bytes (not the UBX envelope).
	encode(w *wire.Writer)
}

// UbxFrame is a fully framed, checksummed UBX message: header, class,
// message id, length-prefixed payload, and the two Fletcher checksum bytes.
type UbxFrame struct {
	Class byte
	ID    byte
	Body  Body // decoded variant, or *UbxUnknown holding raw bytes
}

func (f *UbxFrame) Kind() Kind { return KindUbx }

// UbxContainsPrefix reports whether b begins with the UBX sync bytes.
func UbxContainsPrefix(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xB5 && b[1] == 0x62
}

// UbxMessageUsage returns the total framed length (header..checksum) of the
// UBX message at the front of b, once enough of it has arrived to know.
func UbxMessageUsage(b []byte) (int, bool) {
	if len(b) < 8 || !UbxContainsPrefix(b) {
		return 0, false
	}
	payloadLen := int(b[4]) | int(b[5])<<8
	return payloadLen + 8, true
}

// ParseReadUbx parses one complete UBX frame from the front of b.
func ParseReadUbx(b []byte) (*UbxFrame, []byte, error) {
	if len(b) >= 2 && !UbxContainsPrefix(b) {
		return nil, b, fmt.Errorf("%w: ubx header % x", ErrInvalid, b[:2])
	}
	n, ok := UbxMessageUsage(b)
	if !ok {
		return nil, b, fmt.Errorf("%w: ubx frame", wire.ErrNotEnoughData)
	}
	if len(b) < n {
		return nil, b, fmt.Errorf("%w: ubx frame", wire.ErrNotEnoughData)
	}
	frame, rest := b[:n], b[n:]

	r := wire.NewReader(frame)
	if err := r.ReadTag(ubxHeader); err != nil {
		return nil, b, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	class, _ := r.ReadU8()
	id, _ := r.ReadU8()
	payloadLen, _ := r.ReadU16LE()
	payload, err := r.ReadN(int(payloadLen))
	if err != nil {
		return nil, b, fmt.Errorf("%w: %v", ErrInvalidLen, err)
	}
	ckA, err := r.ReadU8()
	if err != nil {
		return nil, b, fmt.Errorf("%w: %v", ErrInvalidLen, err)
	}
	ckB, err := r.ReadU8()
	if err != nil {
		return nil, b, fmt.Errorf("%w: %v", ErrInvalidLen, err)
	}

	wantA, wantB := wire.Fletcher8(frame[2 : 6+payloadLen])
	if ckA != wantA || ckB != wantB {
		return nil, b, fmt.Errorf("%w: ubx class=%#x id=%#x", ErrInvalidChecksum, class, id)
	}

	body, err := decodeUbxBody(class, id, payload)
	if err != nil {
		return nil, b, err
	}
	return &UbxFrame{Class: class, ID: id, Body: body}, rest, nil
}

// ParseWrite re-serializes f, recomputing header, length, and checksum from
// Body's current contents.
func (f *UbxFrame) ParseWrite() []byte {
	w := wire.NewWriter()
	w.WriteBytes(ubxHeader)
	w.WriteU8(f.Class)
	w.WriteU8(f.ID)

	payload := wire.NewWriter()
	f.Body.encode(payload)
	pb := payload.Bytes()

	w.WriteU16LE(uint16(len(pb)))
	w.WriteBytes(pb)

	ckA, ckB := wire.Fletcher8(w.Bytes()[2:])
	w.WriteU8(ckA)
	w.WriteU8(ckB)
	return w.Bytes()
}

// UbxUnknown preserves the raw payload of a class/id this package does not
// decode, so a read-then-write round trips byte-for-byte.
type UbxUnknown struct {
	Class, ID byte
	Payload   []byte
}

func (u *UbxUnknown) ClassID() (byte, byte) { return u.Class, u.ID }
func (u *UbxUnknown) encode(w *wire.Writer) { w.WriteBytes(u.Payload) }

// UbxPoll is a zero-length UBX frame addressing (Class, ID), used to
// request that message be reported back.
type UbxPoll struct {
	Class, ID byte
}

func (p *UbxPoll) Kind() Kind { return KindUbxPoll }

// ParseReadUbxPoll parses a zero-payload UBX frame. Checksum is still
// verified — a poll is not exempt from the checksum invariant.
func ParseReadUbxPoll(b []byte) (*UbxPoll, []byte, error) {
	n, ok := UbxMessageUsage(b)
	if !ok || n != 8 {
		return nil, b, fmt.Errorf("%w: not a zero-length ubx frame", ErrInvalid)
	}
	frame, rest := b[:n], b[n:]
	class, id := frame[2], frame[3]
	ckA, ckB := wire.Fletcher8(frame[2:6])
	if frame[6] != ckA || frame[7] != ckB {
		return nil, b, fmt.Errorf("%w: ubx poll class=%#x id=%#x", ErrInvalidChecksum, class, id)
	}
	return &UbxPoll{Class: class, ID: id}, rest, nil
}

// ParseWrite re-serializes the poll frame with a freshly computed checksum.
func (p *UbxPoll) ParseWrite() []byte {
	w := wire.NewWriter()
	w.WriteBytes(ubxHeader)
	w.WriteU8(p.Class)
	w.WriteU8(p.ID)
	w.WriteU16LE(0)
	ckA, ckB := wire.Fletcher8(w.Bytes()[2:])
	w.WriteU8(ckA)
	w.WriteU8(ckB)
	return w.Bytes()
}
