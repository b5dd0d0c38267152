package envelope

import (
	"bytes"
	"io"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	xs := [][]byte{
		[]byte("hello"),
		{},
		bytes.Repeat([]byte{0x42}, 300),
		[]byte("gps"),
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, x := range xs {
		if err := enc.Write(x); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i, want := range xs {
		got, err := dec.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Next(%d) = %x, want %x", i, got, want)
		}
	}
	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("final Next = %v, want io.EOF", err)
	}
}

func TestCleanEOFAtBoundary(t *testing.T) {
	r := bytes.NewReader(nil)
	dec := NewDecoder(r)
	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("Next on empty reader = %v, want io.EOF", err)
	}
}

func TestTruncatedMidLength(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{0x05, 0x00}))
	if _, err := dec.Next(); err != io.ErrUnexpectedEOF {
		t.Fatalf("Next on truncated length = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestTruncatedMidPayload(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x0A, 0x00, 0x00, 0x00}) // announces 10 bytes
	buf.Write([]byte("abc"))                  // only 3 arrive
	dec := NewDecoder(&buf)
	if _, err := dec.Next(); err != io.ErrUnexpectedEOF {
		t.Fatalf("Next on truncated payload = %v, want io.ErrUnexpectedEOF", err)
	}
}
