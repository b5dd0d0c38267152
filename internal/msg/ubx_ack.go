package msg

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

// Acknowledgement message ids (ClassAck).
const (
	AckNak byte = 0x00
	AckAck byte = 0x01
)

// Ack is the 2-byte {cls_id, msg_id} body shared by ACK-ACK and ACK-NAK;
// which one it is lives in the enclosing UbxFrame.ID.
type Ack struct {
	ClsID byte
	MsgID byte
}

// ClassID always reports ACK-ACK: an Ack body does not record whether it
// was an ACK or a NAK, so for a NAK the enclosing UbxFrame.ID is the only
// correct id.
func (a *Ack) ClassID() (byte, byte) { return ClassAck, AckAck }
func (a *Ack) encode(w *wire.Writer) {
	w.WriteU8(a.ClsID)
	w.WriteU8(a.MsgID)
}

func decodeAck(id byte, payload []byte) (Body, error, bool) {
	switch id {
	case AckAck, AckNak:
	default:
		return nil, nil, false
	}
	if len(payload) != 2 {
		return nil, fmt.Errorf("%w: ack length %d", ErrInvalidLen, len(payload)), true
	}
	r := readerFor(payload)
	clsID, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("ack: %w", err), true
	}
	msgID, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("ack: %w", err), true
	}
	return &Ack{ClsID: clsID, MsgID: msgID}, nil, true
}

// IsAck reports whether f is an ACK-ACK or ACK-NAK frame, and if so returns
// its body, whose (ClsID, MsgID) names the acknowledged message, and whether
// it acknowledges (true) or rejects (false) that message.
func (f *UbxFrame) IsAck() (ack *Ack, positive bool, ok bool) {
	if f.Class != ClassAck {
		return nil, false, false
	}
	a, ok := f.Body.(*Ack)
	if !ok {
		return nil, false, false
	}
	return a, f.ID == AckAck, true
}
