// Package msg implements the bit-exact codec for every wire message the hub
// handles: UBX binary frames, RTCM3 correction frames, NMEA text sentences,
// and the hub's own Server control frame, unified behind the Message
// interface and the top-level Parse dispatcher.
package msg

import (
	"errors"
	"fmt"
)

// Sentinel errors a codec may return from ParseRead. Framing-level recovery
// (resync, truncate-and-resync, await-more-bytes) is the caller's job —
// internal/hub implements it — these just name what went wrong.
var (
	ErrInvalid         = errors.New("msg: invalid frame")
	ErrInvalidLen      = errors.New("msg: invalid frame length")
	ErrInvalidChecksum = errors.New("msg: checksum mismatch")
)

// Kind tags which codec produced a Message.
type Kind int

const (
	KindUbx Kind = iota
	KindUbxPoll
	KindRtcm
	KindNmea
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindUbx:
		return "Ubx"
	case KindUbxPoll:
		return "UbxPoll"
	case KindRtcm:
		return "Rtcm"
	case KindNmea:
		return "Nmea"
	case KindServer:
		return "Server"
	default:
		return "Unknown"
	}
}

// Message is any parsed wire frame. ParseWrite reproduces the canonical wire
// bytes for the frame — for Ubx this recomputes the checksum; for Rtcm and
// Nmea it reproduces the original bytes exactly.
type Message interface {
	Kind() Kind
	ParseWrite() []byte
}

// ContainsPrefix reports whether b could be the start of any known message,
// trying codecs in the fixed order UBX, RTCM, NMEA, Server.
func ContainsPrefix(b []byte) bool {
	return UbxContainsPrefix(b) || RtcmContainsPrefix(b) || NmeaContainsPrefix(b) || ServerContainsPrefix(b)
}

// MessageUsage returns the number of bytes the next complete message at the
// front of b would occupy, or (0, false) if not enough of b is present yet
// to know, trying codecs in the same fixed order as Parse.
func MessageUsage(b []byte) (int, bool) {
	if n, ok := UbxMessageUsage(b); ok {
		return n, ok
	}
	if n, ok := RtcmMessageUsage(b); ok {
		return n, ok
	}
	if n, ok := NmeaMessageUsage(b); ok {
		return n, ok
	}
	if n, ok := ServerMessageUsage(b); ok {
		return n, ok
	}
	return 0, false
}

// Parse dispatches b to the first codec whose prefix matches, returning the
// parsed Message and the unconsumed remainder of b. A UBX prefix match that
// fails with ErrInvalid or ErrInvalidLen is retried as a zero-length UbxPoll
// before giving up — polls share UBX framing but carry no payload.
func Parse(b []byte) (Message, []byte, error) {
	switch {
	case UbxContainsPrefix(b):
		m, rest, err := ParseReadUbx(b)
		if err == nil {
			return m, rest, nil
		}
		if errors.Is(err, ErrInvalid) || errors.Is(err, ErrInvalidLen) {
			if pm, prest, perr := ParseReadUbxPoll(b); perr == nil {
				return pm, prest, nil
			}
		}
		return nil, b, err
	case RtcmContainsPrefix(b):
		m, rest, err := ParseReadRtcm(b)
		if err != nil {
			return nil, rest, err
		}
		return m, rest, nil
	case NmeaContainsPrefix(b):
		m, rest, err := ParseReadNmea(b)
		if err != nil {
			return nil, rest, err
		}
		return m, rest, nil
	case ServerContainsPrefix(b):
		m, rest, err := ParseReadServer(b)
		if err != nil {
			return nil, rest, err
		}
		return m, rest, nil
	default:
		return nil, b, fmt.Errorf("%w: no known prefix", ErrInvalid)
	}
}
