package ntrip

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/msg"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// fakeCaster accepts one connection, ignores the request, and writes an
// HTTP/1.1 response with the required Content-Type followed by a stream of
// RTCM frames with some garbage bytes spliced in between.
func fakeCaster(t *testing.T, frames [][]byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		conn.Read(buf) // drain the request
		conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: gnss/data\r\n\r\n"))
		conn.Write([]byte{0x00, 0x01, 0x02}) // garbage before the first frame
		for _, f := range frames {
			conn.Write(f)
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String()
}

func rtcmFrame(t *testing.T, msgType uint16, payload []byte) []byte {
	t.Helper()
	// Pack msgType into the top 12 bits of the first two payload bytes,
	// matching how internal/msg.ParseReadRtcm decodes it.
	if len(payload) < 2 {
		payload = append(payload, 0, 0)
	}
	payload[0] = byte(msgType >> 4)
	payload[1] = byte(msgType<<4) | (payload[1] & 0x0F)
	frame := &msg.RtcmFrame{MessageType: msgType, Raw: payload}
	return frame.ParseWrite()
}

func TestIngestorYieldsFramedRtcm(t *testing.T) {
	f1 := rtcmFrame(t, 0x3ED, []byte{0, 0, 0, 0, 0})
	f2 := rtcmFrame(t, 0x449, []byte{0, 0, 1, 2, 3})

	addr := fakeCaster(t, [][]byte{f1, f2})

	ig := NewIngestor("http://"+addr+"/MOUNT", "", "", "", testLogger())

	out := make(chan *msg.RtcmFrame, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ig.Run(ctx, out) }()

	var got []*msg.RtcmFrame
	for m := range out {
		got = append(got, m)
		if len(got) == 2 {
			break
		}
	}

	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if got[0].MessageType != 0x3ED || got[1].MessageType != 0x449 {
		t.Fatalf("unexpected message types: %#x, %#x", got[0].MessageType, got[1].MessageType)
	}
}

func TestIngestorRejectsWrongContentType(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		conn.Read(buf)
		conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nnot rtcm"))
	}()

	ig := NewIngestor("http://"+ln.Addr().String()+"/MOUNT", "", "", "", testLogger())
	out := make(chan *msg.RtcmFrame, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = ig.Run(ctx, out)
	if err == nil {
		t.Fatal("expected error for wrong content type, got nil")
	}
}
