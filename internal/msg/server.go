package msg

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

const serverPreamble = '%' // 0x25

// ServerOp is the single opcode byte following the Server preamble.
type ServerOp byte

const (
	// ServerResetPort tells the hub to close and reopen its serial handle.
	ServerResetPort ServerOp = 0
	// ServerQuit tells the hub loop to exit cleanly.
	ServerQuit ServerOp = 1
)

// Server is the hub's own internal control frame: '%' followed by one
// opcode byte. It never appears on the serial link, only on inter-node
// transports.
type Server struct {
	Op ServerOp
}

func (s *Server) Kind() Kind { return KindServer }

// ServerContainsPrefix reports whether b begins with the Server preamble.
func ServerContainsPrefix(b []byte) bool {
	return len(b) >= 1 && b[0] == serverPreamble
}

// ServerMessageUsage is always 2 once the preamble and opcode are present.
func ServerMessageUsage(b []byte) (int, bool) {
	if !ServerContainsPrefix(b) {
		return 0, false
	}
	if len(b) < 2 {
		return 0, false
	}
	return 2, true
}

// ParseReadServer parses a Server control frame from the front of b.
func ParseReadServer(b []byte) (*Server, []byte, error) {
	n, ok := ServerMessageUsage(b)
	if !ok {
		return nil, b, fmt.Errorf("%w: server frame", wire.ErrNotEnoughData)
	}
	op := ServerOp(b[1])
	switch op {
	case ServerResetPort, ServerQuit:
	default:
		return nil, b, fmt.Errorf("%w: unknown server opcode %#x", ErrInvalid, b[1])
	}
	return &Server{Op: op}, b[n:], nil
}

// ParseWrite serializes the frame back to its two-byte wire form.
func (s *Server) ParseWrite() []byte {
	return []byte{serverPreamble, byte(s.Op)}
}
