package msg

import "testing"

// The legacy JSON envelope round trips an NMEA sentence through the same
// Parse dispatch the binary envelope path uses.
func TestJSONRoundTripNmea(t *testing.T) {
	raw := []byte("$GPGGA,\r\n")
	m, _, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	encoded, err := ToJSON(m)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := FromJSON(encoded)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if string(decoded.ParseWrite()) != string(raw) {
		t.Errorf("round trip = %q, want %q", decoded.ParseWrite(), raw)
	}
}

// A UBX ACK-ACK frame round trips through the legacy JSON form too.
func TestJSONRoundTripUbx(t *testing.T) {
	frame := []byte{0xB5, 0x62, 0x05, 0x01, 0x02, 0x00, 0x06, 0x8A, 0x98, 0xC1}
	m, _, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	encoded, err := ToJSON(m)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := FromJSON(encoded)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	u, ok := decoded.(*UbxFrame)
	if !ok {
		t.Fatalf("expected *UbxFrame, got %T", decoded)
	}
	ack, positive, ok := u.IsAck()
	if !ok || !positive || ack.ClsID != 0x06 || ack.MsgID != 0x8A {
		t.Errorf("ack = %+v positive=%v ok=%v", ack, positive, ok)
	}
}
