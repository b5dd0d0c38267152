package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bramburn/gnsshub/internal/envelope"
)

func TestOutgoingYieldsPeerMessages(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	out := NewOutgoing(ln.Addr().String(), testLogger())
	defer out.Close()

	var peer net.Conn
	select {
	case peer = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("outgoing client never connected")
	}
	defer peer.Close()

	enc := envelope.NewEncoder(peer)
	assert.NoError(t, enc.Write([]byte("upstream")))

	select {
	case got := <-out.Messages():
		assert.Equal(t, []byte("upstream"), got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for upstream message")
	}
}

func TestOutgoingParkedWithoutAddress(t *testing.T) {
	out := NewOutgoing("", testLogger())
	defer out.Close()

	assert.False(t, out.TrySendMessage([]byte("nope")), "send while parked must fail")

	select {
	case m := <-out.Messages():
		t.Fatalf("parked client yielded %q", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOutgoingRetriesUntilReachable(t *testing.T) {
	// Reserve an address, then close the listener so the first dials fail.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	out := NewOutgoing(addr, testLogger())
	defer out.Close()

	// Let at least one connect attempt fail before the address comes back.
	time.Sleep(200 * time.Millisecond)

	ln2, err := net.Listen("tcp", addr)
	if err != nil {
		t.Skipf("could not rebind %s: %v", addr, err)
	}
	defer ln2.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln2.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	select {
	case peer := <-accepted:
		defer peer.Close()
		enc := envelope.NewEncoder(peer)
		assert.NoError(t, enc.Write([]byte("finally")))
		select {
		case got := <-out.Messages():
			assert.Equal(t, []byte("finally"), got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for first message after reconnect")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("outgoing client never reached the revived address")
	}
}
