package msg

import (
	"bytes"
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

// MonVerID is UBX-MON-VER.
const MonVerID byte = 0x04

// MonVer is UBX-MON-VER: fixed 30-byte software version, 10-byte hardware
// version, followed by zero or more 30-byte NUL-terminated extension
// strings.
type MonVer struct {
	SwVersion  string
	HwVersion  string
	Extensions []string
}

func (m *MonVer) ClassID() (byte, byte) { return ClassMon, MonVerID }

func writeFixedString(w *wire.Writer, s string, width int) {
	buf := make([]byte, width)
	copy(buf, s)
	w.WriteBytes(buf)
}

func (m *MonVer) encode(w *wire.Writer) {
	writeFixedString(w, m.SwVersion, 30)
	writeFixedString(w, m.HwVersion, 10)
	for _, ext := range m.Extensions {
		writeFixedString(w, ext, 30)
	}
}

func readFixedString(r *wire.Reader, width int) (string, error) {
	b, err := r.ReadN(width)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

func decodeMon(id byte, payload []byte) (Body, error, bool) {
	if id != MonVerID {
		return nil, nil, false
	}
	if len(payload) < 40 || (len(payload)-40)%30 != 0 {
		return nil, fmt.Errorf("%w: mon-ver length %d", ErrInvalidLen, len(payload)), true
	}
	r := readerFor(payload)
	sw, err := readFixedString(r, 30)
	if err != nil {
		return nil, fmt.Errorf("mon-ver: %w", err), true
	}
	hw, err := readFixedString(r, 10)
	if err != nil {
		return nil, fmt.Errorf("mon-ver: %w", err), true
	}
	m := &MonVer{SwVersion: sw, HwVersion: hw}
	for r.Len() > 0 {
		ext, err := readFixedString(r, 30)
		if err != nil {
			return nil, fmt.Errorf("mon-ver extension: %w", err), true
		}
		m.Extensions = append(m.Extensions, ext)
	}
	return m, nil, true
}
