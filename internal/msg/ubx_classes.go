package msg

import "github.com/bramburn/gnsshub/internal/wire"

// decodeUbxBody dispatches a UBX payload to its typed decoder by (class,
// id). Classes and ids this package doesn't model — and unrecognized ids
// within a modelled class — fall back to UbxUnknown, which is not a parse
// error: reads never fail just because a code point is unrecognized.
func decodeUbxBody(class, id byte, payload []byte) (Body, error) {
	switch class {
	case ClassAck:
		if b, err, ok := decodeAck(id, payload); ok {
			return b, err
		}
	case ClassCfg:
		if b, err, ok := decodeCfg(id, payload); ok {
			return b, err
		}
	case ClassNav:
		if b, err, ok := decodeNav(id, payload); ok {
			return b, err
		}
	case ClassMon:
		if b, err, ok := decodeMon(id, payload); ok {
			return b, err
		}
	case ClassRxm:
		if b, err, ok := decodeRxm(id, payload); ok {
			return b, err
		}
	case ClassInf:
		if b, err, ok := decodeInf(id, payload); ok {
			return b, err
		}
	}
	return &UbxUnknown{Class: class, ID: id, Payload: payload}, nil
}

func readerFor(payload []byte) *wire.Reader { return wire.NewReader(payload) }
