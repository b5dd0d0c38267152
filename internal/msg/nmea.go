package msg

import (
	"fmt"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/bramburn/gnsshub/internal/wire"
)

// NmeaSentence is one NMEA-0183 sentence, preserved verbatim so a
// read-then-write round trips byte-exact. The framing codec does not
// decompose fields; consumers that want them call Sentence.
type NmeaSentence struct {
	Raw string // includes leading '$' and trailing "\r\n"
}

func (n *NmeaSentence) Kind() Kind { return KindNmea }

// NmeaContainsPrefix reports whether b begins with the NMEA sentence start
// character.
func NmeaContainsPrefix(b []byte) bool {
	return len(b) >= 1 && b[0] == '$'
}

// NmeaMessageUsage scans for the "\r\n" terminator, returning the total
// sentence length once found.
func NmeaMessageUsage(b []byte) (int, bool) {
	if !NmeaContainsPrefix(b) {
		return 0, false
	}
	for i := 1; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i + 2, true
		}
	}
	return 0, false
}

// ParseReadNmea parses one complete NMEA sentence from the front of b.
// Bytes outside ASCII fail parse.
func ParseReadNmea(b []byte) (*NmeaSentence, []byte, error) {
	n, ok := NmeaMessageUsage(b)
	if !ok {
		return nil, b, fmt.Errorf("%w: nmea sentence", wire.ErrNotEnoughData)
	}
	frame, rest := b[:n], b[n:]
	for _, c := range frame {
		if c > 0x7F {
			return nil, b, fmt.Errorf("%w: nmea sentence has non-ASCII byte %#x", ErrInvalid, c)
		}
	}
	return &NmeaSentence{Raw: string(frame)}, rest, nil
}

// ParseWrite reproduces the original sentence bytes exactly.
func (n *NmeaSentence) ParseWrite() []byte {
	return []byte(n.Raw)
}

// Sentence decodes the sentence fields, checksum included, via go-nmea.
// Only needed by consumers that interpret the content (the monitor CLI);
// framing never calls this.
func (n *NmeaSentence) Sentence() (nmea.Sentence, error) {
	line := strings.TrimSuffix(n.Raw, "\r\n")
	s, err := nmea.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("msg: decoding nmea fields: %w", err)
	}
	return s, nil
}
