package msg

import (
	"fmt"

	"github.com/go-gnss/rtcm/rtcm3"

	"github.com/bramburn/gnsshub/internal/wire"
)

const rtcmPreamble = 0xD3

// RtcmFrame is one RTCM3 message: preamble, 10-bit length, payload, 3-byte
// CRC-24Q. MessageType is the high 12 bits of the payload, decoded for
// convenience; Raw holds exactly the payload bytes (excluding
// preamble/length/CRC), so ParseWrite reproduces the original frame
// byte-for-byte.
type RtcmFrame struct {
	MessageType uint16
	Raw         []byte
}

func (f *RtcmFrame) Kind() Kind { return KindRtcm }

// RtcmContainsPrefix reports whether b begins with the RTCM3 preamble.
func RtcmContainsPrefix(b []byte) bool {
	return len(b) >= 1 && b[0] == rtcmPreamble
}

// RtcmMessageUsage returns the total framed length (preamble..CRC) of the
// RTCM message at the front of b, once enough of it has arrived to know.
func RtcmMessageUsage(b []byte) (int, bool) {
	if len(b) < 3 || !RtcmContainsPrefix(b) {
		return 0, false
	}
	length := (int(b[1]&0x03) << 8) | int(b[2])
	return length + 6, true
}

// ParseReadRtcm parses one complete RTCM frame from the front of b,
// verifying its CRC-24Q.
func ParseReadRtcm(b []byte) (*RtcmFrame, []byte, error) {
	n, ok := RtcmMessageUsage(b)
	if !ok || len(b) < n {
		return nil, b, fmt.Errorf("%w: rtcm frame", wire.ErrNotEnoughData)
	}
	frame, rest := b[:n], b[n:]
	length := (int(frame[1]&0x03) << 8) | int(frame[2])

	got := wire.CRC24Q(frame[:3+length])
	want := uint32(frame[3+length])<<16 | uint32(frame[4+length])<<8 | uint32(frame[5+length])
	if got != want {
		return nil, b, fmt.Errorf("%w: rtcm crc", ErrInvalidChecksum)
	}

	payload := frame[3 : 3+length]
	msgType := uint16(payload[0])<<4 | uint16(payload[1])>>4
	raw := make([]byte, length)
	copy(raw, payload)
	return &RtcmFrame{MessageType: msgType, Raw: raw}, rest, nil
}

// ParseWrite reproduces the exact original bytes of f, recomputing the
// length header and CRC from Raw.
func (f *RtcmFrame) ParseWrite() []byte {
	w := wire.NewWriter()
	length := len(f.Raw)
	w.WriteU8(rtcmPreamble)
	w.WriteU8(byte((length >> 8) & 0x03))
	w.WriteU8(byte(length & 0xFF))
	w.WriteBytes(f.Raw)
	hi, mid, lo := wire.CRC24QBytes(wire.CRC24Q(w.Bytes()))
	w.WriteU8(hi)
	w.WriteU8(mid)
	w.WriteU8(lo)
	return w.Bytes()
}

// Deserialize decodes the payload into its typed rtcm3 message. The hub
// itself never needs this — corrections are forwarded as opaque frames —
// but consumers such as a monitor CLI use it to describe traffic.
func (f *RtcmFrame) Deserialize() (rtcm3.Message, error) {
	m, err := rtcm3.DeserializeMessage(f.Raw)
	if err != nil {
		return nil, fmt.Errorf("msg: deserializing rtcm %d: %w", f.MessageType, err)
	}
	return m, nil
}
