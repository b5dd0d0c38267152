package msg

import (
	"bytes"
	"errors"
	"testing"
)

// ACK-ACK for CFG-VALSET parses to the typed Ack body.
func TestParseAckAck(t *testing.T) {
	frame := []byte{0xB5, 0x62, 0x05, 0x01, 0x02, 0x00, 0x06, 0x8A, 0x98, 0xC1}
	m, rest, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remainder, got %d bytes", len(rest))
	}
	u, ok := m.(*UbxFrame)
	if !ok {
		t.Fatalf("expected *UbxFrame, got %T", m)
	}
	ack, positive, ok := u.IsAck()
	if !ok || !positive {
		t.Fatalf("expected positive ack, got ok=%v positive=%v", ok, positive)
	}
	if ack.ClsID != 0x06 || ack.MsgID != 0x8A {
		t.Errorf("ack = {%#x,%#x}, want {0x06,0x8a}", ack.ClsID, ack.MsgID)
	}
}

// An NMEA sentence round trips byte-exact.
func TestParseNmeaRoundTrip(t *testing.T) {
	raw := []byte("$GPGGA,\r\n")
	m, rest, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remainder, got %q", rest)
	}
	if !bytes.Equal(m.ParseWrite(), raw) {
		t.Errorf("ParseWrite = %q, want %q", m.ParseWrite(), raw)
	}
}

// The RTCM message type is the high 12 bits of the payload.
func TestParseRtcmMessageType(t *testing.T) {
	payload := []byte{0x3E, 0xD0, 0x00, 0x00, 0x00}
	frameNoCRC := append([]byte{0xD3, 0x00, 0x05}, payload...)
	crc := crc24qOf(frameNoCRC)
	frame := append(frameNoCRC, byte(crc>>16), byte(crc>>8), byte(crc))

	m, rest, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remainder, got %d bytes", len(rest))
	}
	r, ok := m.(*RtcmFrame)
	if !ok {
		t.Fatalf("expected *RtcmFrame, got %T", m)
	}
	if r.MessageType != 0x3ED {
		t.Errorf("MessageType = %#x, want 0x3ed", r.MessageType)
	}
}

func TestRtcmRoundTripExact(t *testing.T) {
	payload := []byte{0x3E, 0xD0, 0x01, 0x02, 0x03}
	frameNoCRC := append([]byte{0xD3, 0x00, 0x05}, payload...)
	crc := crc24qOf(frameNoCRC)
	frame := append(frameNoCRC, byte(crc>>16), byte(crc>>8), byte(crc))

	f, rest, err := ParseReadRtcm(frame)
	if err != nil {
		t.Fatalf("ParseReadRtcm: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remainder")
	}
	if !bytes.Equal(f.ParseWrite(), frame) {
		t.Errorf("ParseWrite did not reproduce original bytes")
	}
}

func TestRtcmCrcFlipFails(t *testing.T) {
	payload := []byte{0x3E, 0xD0, 0x00, 0x00, 0x00}
	frameNoCRC := append([]byte{0xD3, 0x00, 0x05}, payload...)
	crc := crc24qOf(frameNoCRC)
	frame := append(frameNoCRC, byte(crc>>16), byte(crc>>8), byte(crc))

	for i := range frame {
		flipped := append([]byte(nil), frame...)
		flipped[i] ^= 0xFF
		if _, _, err := ParseReadRtcm(flipped); err == nil {
			t.Errorf("byte %d flip: expected CRC failure, got success", i)
		}
	}
}

func TestUbxChecksumFlipFails(t *testing.T) {
	frame := buildUbxFrame(t, ClassCfg, CfgValSetID, []byte{0x00, 0x01, 0x00, 0x00})
	for i := 0; i < len(frame)-2; i++ { // exclude the two checksum bytes
		flipped := append([]byte(nil), frame...)
		flipped[i] ^= 0xFF
		if _, _, err := ParseReadUbx(flipped); err == nil {
			t.Errorf("byte %d flip: expected checksum failure, got success", i)
		} else if !errors.Is(err, ErrInvalidChecksum) && !errors.Is(err, ErrInvalid) && !errors.Is(err, ErrInvalidLen) {
			t.Errorf("byte %d flip: unexpected error kind %v", i, err)
		}
	}
}

func TestUbxUnknownRoundTrip(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frame := buildUbxFrame(t, 0x99, 0x01, payload)
	m, rest, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remainder")
	}
	if !bytes.Equal(m.ParseWrite(), frame) {
		t.Errorf("unknown UBX message did not round trip")
	}
}

func TestUbxPollDisambiguation(t *testing.T) {
	// A zero-length frame addressing NAV-PVT should parse as UbxPoll even
	// though NavPvtID has a registered (non-empty) decoder.
	frame := buildUbxFrame(t, ClassNav, NavPvtID, nil)
	m, _, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	poll, ok := m.(*UbxPoll)
	if !ok {
		t.Fatalf("expected *UbxPoll, got %T", m)
	}
	if poll.Class != ClassNav || poll.ID != NavPvtID {
		t.Errorf("poll = {%#x,%#x}, want {%#x,%#x}", poll.Class, poll.ID, ClassNav, NavPvtID)
	}
}

func TestServerFrame(t *testing.T) {
	m, rest, err := Parse([]byte{'%', 0x01})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remainder")
	}
	s, ok := m.(*Server)
	if !ok || s.Op != ServerQuit {
		t.Fatalf("expected Server{Quit}, got %#v", m)
	}
}

func TestContainsPrefixFalseForGarbage(t *testing.T) {
	if ContainsPrefix([]byte{0x00, 0x01, 0x02}) {
		t.Error("expected no prefix match for garbage bytes")
	}
}

// --- helpers ---

func buildUbxFrame(t *testing.T, class, id byte, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(0xB5)
	buf.WriteByte(0x62)
	buf.WriteByte(class)
	buf.WriteByte(id)
	buf.WriteByte(byte(len(payload)))
	buf.WriteByte(byte(len(payload) >> 8))
	buf.Write(payload)
	ckA, ckB := fletcher8(buf.Bytes()[2:])
	buf.WriteByte(ckA)
	buf.WriteByte(ckB)
	return buf.Bytes()
}

func fletcher8(b []byte) (byte, byte) {
	var a, bb byte
	for _, c := range b {
		a += c
		bb += a
	}
	return a, bb
}

func crc24qOf(b []byte) uint32 {
	// Independent CRC-24Q implementation so these tests don't share a
	// table with the code under test.
	const poly = 0x1864CFB
	var table [256]uint32
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 16
		for bit := 0; bit < 8; bit++ {
			if crc&0x800000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc = crc << 1
			}
		}
		table[i] = crc & 0xFFFFFF
	}
	var crc uint32
	for _, c := range b {
		crc = ((crc << 8) ^ table[byte(crc>>16)^c]) & 0xFFFFFF
	}
	return crc
}
