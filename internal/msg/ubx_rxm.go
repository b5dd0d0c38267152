package msg

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

// RxmRtcmID is UBX-RXM-RTCM, the receiver's report of an RTCM input message
// it just consumed (message type, sub type, reference station, CRC status).
const RxmRtcmID byte = 0x32

// RxmRtcm is UBX-RXM-RTCM.
type RxmRtcm struct {
	Version    uint8
	Flags      uint8
	SubType    uint16
	RefStation uint16
	MsgType    uint16
}

func (r *RxmRtcm) ClassID() (byte, byte) { return ClassRxm, RxmRtcmID }
func (r *RxmRtcm) encode(w *wire.Writer) {
	w.WriteU8(r.Version)
	w.WriteU8(r.Flags)
	w.WriteU16LE(r.SubType)
	w.WriteU16LE(r.RefStation)
	w.WriteU16LE(r.MsgType)
}

func decodeRxm(id byte, payload []byte) (Body, error, bool) {
	if id != RxmRtcmID {
		return nil, nil, false
	}
	if len(payload) != 8 {
		return nil, fmt.Errorf("%w: rxm-rtcm length %d", ErrInvalidLen, len(payload)), true
	}
	r := readerFor(payload)
	m := &RxmRtcm{}
	var err error
	if m.Version, err = r.ReadU8(); err != nil {
		return nil, fmt.Errorf("rxm-rtcm: %w", err), true
	}
	if m.Flags, err = r.ReadU8(); err != nil {
		return nil, fmt.Errorf("rxm-rtcm: %w", err), true
	}
	if m.SubType, err = r.ReadU16LE(); err != nil {
		return nil, fmt.Errorf("rxm-rtcm: %w", err), true
	}
	if m.RefStation, err = r.ReadU16LE(); err != nil {
		return nil, fmt.Errorf("rxm-rtcm: %w", err), true
	}
	if m.MsgType, err = r.ReadU16LE(); err != nil {
		return nil, fmt.Errorf("rxm-rtcm: %w", err), true
	}
	return m, nil, true
}
