package msg

import "github.com/bramburn/gnsshub/internal/wire"

// INF message ids: the receiver's free-text diagnostic channel.
const (
	InfError   byte = 0x00
	InfWarning byte = 0x01
	InfNotice  byte = 0x02
	InfTest    byte = 0x03
	InfDebug   byte = 0x04
)

// Inf is a UBX-INF-* message: an ASCII diagnostic string, not
// NUL-terminated on the wire (length comes from the UBX payload length).
type Inf struct {
	Level byte // one of Inf{Error,Warning,Notice,Test,Debug}
	Text  string
}

func (i *Inf) ClassID() (byte, byte) { return ClassInf, i.Level }
func (i *Inf) encode(w *wire.Writer) { w.WriteBytes([]byte(i.Text)) }

func decodeInf(id byte, payload []byte) (Body, error, bool) {
	switch id {
	case InfError, InfWarning, InfNotice, InfTest, InfDebug:
	default:
		return nil, nil, false
	}
	return &Inf{Level: id, Text: string(payload)}, nil, true
}
