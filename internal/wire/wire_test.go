package wire

import (
	"errors"
	"testing"
)

func TestReaderIntegers(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Errorf("ReadU8: got (%d, %v), want (1, nil)", u8, err)
	}

	u16, err := r.ReadU16LE()
	if err != nil || u16 != 0x0302 {
		t.Errorf("ReadU16LE: got (%#x, %v), want (0x0302, nil)", u16, err)
	}

	u32, err := r.ReadU32LE()
	if err != nil || u32 != 0x08070605 {
		t.Errorf("ReadU32LE: got (%#x, %v), want (0x08070605, nil)", u32, err)
	}

	if r.Len() != 0 {
		t.Errorf("expected reader exhausted, %d bytes remaining", r.Len())
	}
}

func TestReaderNotEnoughData(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadU16LE(); !errors.Is(err, ErrNotEnoughData) {
		t.Errorf("expected ErrNotEnoughData, got %v", err)
	}
}

func TestReaderTag(t *testing.T) {
	r := NewReader([]byte{0xB5, 0x62, 0xFF})
	if err := r.ReadTag([]byte{0xB5, 0x62}); err != nil {
		t.Errorf("expected tag match, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 byte remaining after tag, got %d", r.Len())
	}

	r2 := NewReader([]byte{0x00, 0x00})
	if err := r2.ReadTag([]byte{0xB5, 0x62}); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("expected ErrInvalidTag, got %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0x01)
	w.WriteU16LE(0x0302)
	w.WriteU32LE(0x08070605)

	r := NewReader(w.Bytes())
	u8, _ := r.ReadU8()
	u16, _ := r.ReadU16LE()
	u32, _ := r.ReadU32LE()

	if u8 != 0x01 || u16 != 0x0302 || u32 != 0x08070605 {
		t.Errorf("round trip mismatch: %#x %#x %#x", u8, u16, u32)
	}
}

func TestFletcher8(t *testing.T) {
	// class=0x05 id=0x01 len=0x0002 payload=0x06,0x8A: the ACK-ACK body for a
	// CFG-VALSET acknowledgement.
	frame := []byte{0x05, 0x01, 0x02, 0x00, 0x06, 0x8A}
	ckA, ckB := Fletcher8(frame)
	if ckA != 0x98 || ckB != 0xC1 {
		t.Errorf("Fletcher8 = (%#x, %#x), want (0x98, 0xc1)", ckA, ckB)
	}
}

func TestCRC24Q(t *testing.T) {
	// CRC-24Q of an empty message is zero.
	if got := CRC24Q(nil); got != 0 {
		t.Errorf("CRC24Q(nil) = %#x, want 0", got)
	}
	// Flipping any single byte must change the checksum.
	msg := []byte{0xD3, 0x00, 0x05, 0x3E, 0xD0, 0x00, 0x00, 0x00}
	base := CRC24Q(msg)
	for i := range msg {
		flipped := append([]byte(nil), msg...)
		flipped[i] ^= 0xFF
		if CRC24Q(flipped) == base {
			t.Errorf("byte %d flip did not change CRC", i)
		}
	}
}
