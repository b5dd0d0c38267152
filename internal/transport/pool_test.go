package transport

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/envelope"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// TestBroadcastOnlyReachesPeersConnectedAtSendTime:
// broadcast with an empty pool, connect two peers, broadcast again — each
// peer should have received only the second payload, correctly framed.
func TestBroadcastOnlyReachesPeersConnectedAtSendTime(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	pool := NewPool(ln, testLogger())
	defer pool.Close()

	first := bytes.Repeat([]byte{0xAA}, 100)
	if err := pool.Broadcast(first); err != nil {
		t.Fatalf("first broadcast (empty pool): %v", err)
	}

	peerA, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial peer A: %v", err)
	}
	defer peerA.Close()
	peerB, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial peer B: %v", err)
	}
	defer peerB.Close()

	waitForPoolSize(t, pool, 2)

	second := bytes.Repeat([]byte{0xBB}, 100)
	if err := pool.Broadcast(second); err != nil {
		t.Fatalf("second broadcast: %v", err)
	}

	wantFrame := append([]byte{0x64, 0x00, 0x00, 0x00}, second...)
	for name, peer := range map[string]net.Conn{"A": peerA, "B": peerB} {
		peer.SetReadDeadline(time.Now().Add(2 * time.Second))
		got := make([]byte, len(wantFrame))
		if _, err := readFull(peer, got); err != nil {
			t.Fatalf("peer %s: reading frame: %v", name, err)
		}
		if !bytes.Equal(got, wantFrame) {
			t.Fatalf("peer %s frame = %x, want %x", name, got, wantFrame)
		}
	}
}

func readFull(r net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func waitForPoolSize(t *testing.T, p *Pool, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.Len() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("pool never reached %d peers (have %d)", n, p.Len())
}

func TestPoolSourceFansInPeerPayloads(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	pool := NewPool(ln, testLogger())
	defer pool.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	enc := envelope.NewEncoder(conn)
	if err := enc.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-pool.Source():
		if string(got) != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pool source")
	}
}
