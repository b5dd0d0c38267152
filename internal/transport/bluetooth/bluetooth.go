// Package bluetooth implements the optional L2CAP transport: a raw
// AF_BLUETOOTH/BTPROTO_L2CAP socket carrying the same envelope framing as
// internal/transport.Connection, so internal/hub can treat it uniformly.
// Advertising the service over BlueZ/D-Bus is the caller's concern — this
// package only opens the data channel and exposes the constants a
// caller-supplied advertiser needs.
package bluetooth

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bramburn/gnsshub/internal/envelope"
)

// PSM is the L2CAP Protocol/Service Multiplexer the hub listens/connects
// on: PSM_LE_DYN_START + 5.
const (
	pslDynStart = 0x0080
	PSM         = pslDynStart + 5
)

// Advertisement constants for a caller-supplied advertiser.
var (
	ServiceUUID    = [16]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFE, 0xED, 0xC0}
	ManufacturerID = uint16(0xF00D)
	LocalName      = "gps_server"
)

// Endpoint wraps one accepted or connected L2CAP socket, presenting the same
// Messages()/Send()/Close() contract as transport.Connection.
type Endpoint struct {
	fd  int
	enc *envelope.Encoder

	msgs chan []byte
	errc chan error

	closeOnce sync.Once
	done      chan struct{}
}

func newEndpoint(fd int) *Endpoint {
	e := &Endpoint{
		fd:   fd,
		enc:  envelope.NewEncoder(fdWriter{fd}),
		msgs: make(chan []byte, 16),
		errc: make(chan error, 1),
		done: make(chan struct{}),
	}
	go e.readLoop()
	return e
}

type fdWriter struct{ fd int }

func (w fdWriter) Write(p []byte) (int, error) { return unix.Write(w.fd, p) }

type fdReader struct{ fd int }

func (r fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(r.fd, p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, fmt.Errorf("bluetooth: socket closed")
	}
	return n, nil
}

func (e *Endpoint) readLoop() {
	defer close(e.msgs)
	dec := envelope.NewDecoder(fdReader{e.fd})
	for {
		payload, err := dec.Next()
		if err != nil {
			select {
			case e.errc <- err:
			default:
			}
			return
		}
		select {
		case e.msgs <- payload:
		case <-e.done:
			return
		}
	}
}

// Messages yields inbound payloads in arrival order.
func (e *Endpoint) Messages() <-chan []byte { return e.msgs }

// Err carries the error, if any, that ended Messages().
func (e *Endpoint) Err() <-chan error { return e.errc }

// Send writes one framed payload.
func (e *Endpoint) Send(payload []byte) error { return e.enc.Write(payload) }

// WriteMessage writes one framed payload (L2CAP SEQPACKET writes are
// unbuffered, so this is equivalent to Send).
func (e *Endpoint) WriteMessage(payload []byte) error { return e.enc.Write(payload) }

// Close releases the underlying socket.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() { close(e.done) })
	return unix.Close(e.fd)
}

// Server listens for inbound L2CAP connections on PSM.
type Server struct {
	fd int
}

// NewServer opens a listening L2CAP socket bound to PSM. adapterID is not
// used: the socket is bound with an all-zero device address, so it listens
// on any local adapter.
func NewServer(adapterID int) (*Server, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return nil, fmt.Errorf("bluetooth: socket: %w", err)
	}
	sa := &unix.SockaddrL2{PSM: uint16(PSM)}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bluetooth: bind psm %#x: %w", PSM, err)
	}
	if err := unix.Listen(fd, 4); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bluetooth: listen: %w", err)
	}
	return &Server{fd: fd}, nil
}

// Accept blocks for the next inbound connection.
func (s *Server) Accept() (*Endpoint, error) {
	nfd, _, err := unix.Accept(s.fd)
	if err != nil {
		return nil, fmt.Errorf("bluetooth: accept: %w", err)
	}
	return newEndpoint(nfd), nil
}

// Close stops listening.
func (s *Server) Close() error { return unix.Close(s.fd) }

// Dial opens an L2CAP connection to a remote Bluetooth address (6 bytes,
// big-endian as BlueZ prints it).
func Dial(remote [6]byte) (*Endpoint, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return nil, fmt.Errorf("bluetooth: socket: %w", err)
	}
	sa := &unix.SockaddrL2{PSM: uint16(PSM), Addr: remote}
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bluetooth: connect: %w", err)
	}
	return newEndpoint(fd), nil
}
