// Package cfgval is the configuration value catalogue: the u-blox 32-bit
// key identifiers the hub's CFG-VALSET/VALGET transaction (internal/cfgtxn)
// ships to and from the receiver, each bound to the payload type the
// identifier's own byte encodes (per the u-blox interface description, a
// key's high nibble of its group byte carries the storage size).
package cfgval

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

// Type identifies how a Key's payload is encoded on the wire.
type Type int

const (
	TypeBool Type = iota
	TypeU8
	TypeI8
	TypeU16
	TypeI16
	TypeU32
	TypeI32
	TypeEnum8 // one byte, meaning is catalogue-specific
)

// Size returns the payload width in bytes for t.
func (t Type) Size() int {
	switch t {
	case TypeBool, TypeU8, TypeI8, TypeEnum8:
		return 1
	case TypeU16, TypeI16:
		return 2
	case TypeU32, TypeI32:
		return 4
	default:
		return 0
	}
}

// Key is a 32-bit configuration key identifier.
type Key uint32

// String renders k using its kebab-case name, falling back to the numeric
// identifier for keys that have no name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(k))
}

// Type reports the wire type registered for k, or false if k is unknown.
func (k Key) Type() (Type, bool) {
	t, ok := Catalogue[k]
	return t, ok
}

// Value is a key bound to its typed payload, used for CFG-VALSET and as the
// CFG-VALGET response element.
type Value struct {
	Key Key
	Raw []byte // exactly Type.Size() bytes
}

func newScalar(k Key, t Type, fn func(w *wire.Writer)) Value {
	w := wire.NewWriter()
	fn(w)
	v := Value{Key: k, Raw: w.Bytes()}
	if len(v.Raw) != t.Size() {
		panic(fmt.Sprintf("cfgval: internal size mismatch for %s", k))
	}
	return v
}

// NewBool constructs a boolean-typed Value.
func NewBool(k Key, v bool) Value {
	b := byte(0)
	if v {
		b = 1
	}
	return newScalar(k, TypeBool, func(w *wire.Writer) { w.WriteU8(b) })
}

// NewU8 constructs a uint8-typed Value.
func NewU8(k Key, v uint8) Value {
	return newScalar(k, TypeU8, func(w *wire.Writer) { w.WriteU8(v) })
}

// NewI8 constructs an int8-typed Value.
func NewI8(k Key, v int8) Value {
	return newScalar(k, TypeI8, func(w *wire.Writer) { w.WriteI8(v) })
}

// NewU16 constructs a uint16-typed Value.
func NewU16(k Key, v uint16) Value {
	return newScalar(k, TypeU16, func(w *wire.Writer) { w.WriteU16LE(v) })
}

// NewI16 constructs an int16-typed Value.
func NewI16(k Key, v int16) Value {
	return newScalar(k, TypeI16, func(w *wire.Writer) { w.WriteI16LE(v) })
}

// NewU32 constructs a uint32-typed Value.
func NewU32(k Key, v uint32) Value {
	return newScalar(k, TypeU32, func(w *wire.Writer) { w.WriteU32LE(v) })
}

// NewI32 constructs an int32-typed Value.
func NewI32(k Key, v int32) Value {
	return newScalar(k, TypeI32, func(w *wire.Writer) { w.WriteI32LE(v) })
}

// NewEnum8 constructs a one-byte enum-typed Value.
func NewEnum8(k Key, v uint8) Value {
	return newScalar(k, TypeEnum8, func(w *wire.Writer) { w.WriteU8(v) })
}

// Bool decodes v as a boolean payload.
func (v Value) Bool() (bool, error) {
	if len(v.Raw) != 1 {
		return false, fmt.Errorf("cfgval: %s is not 1 byte wide", v.Key)
	}
	return v.Raw[0] != 0, nil
}

// U8 decodes v as a uint8 payload.
func (v Value) U8() (uint8, error) {
	if len(v.Raw) != 1 {
		return 0, fmt.Errorf("cfgval: %s is not 1 byte wide", v.Key)
	}
	return v.Raw[0], nil
}

// U32 decodes v as a uint32 payload.
func (v Value) U32() (uint32, error) {
	if len(v.Raw) != 4 {
		return 0, fmt.Errorf("cfgval: %s is not 4 bytes wide", v.Key)
	}
	r := wire.NewReader(v.Raw)
	return r.ReadU32LE()
}

// EncodeKeyValue appends {key:u32, payload bytes} to w, as the VALSET wire
// format requires.
func (v Value) EncodeKeyValue(w *wire.Writer) {
	w.WriteU32LE(uint32(v.Key))
	w.WriteBytes(v.Raw)
}

// DecodeValue reads one {key:u32, payload} pair from r using the catalogue
// to determine payload width. Keys absent from the catalogue cannot be
// decoded generically and return an error — callers polling unknown keys
// must know their own width out of band.
func DecodeValue(r *wire.Reader) (Value, error) {
	rawKey, err := r.ReadU32LE()
	if err != nil {
		return Value{}, err
	}
	key := Key(rawKey)
	t, ok := Catalogue[key]
	if !ok {
		return Value{}, fmt.Errorf("cfgval: unknown key %s", key)
	}
	payload, err := r.ReadN(t.Size())
	if err != nil {
		return Value{}, fmt.Errorf("cfgval: reading payload for %s: %w", key, err)
	}
	return Value{Key: key, Raw: payload}, nil
}

// Layer is the destination for a GET (scalar) — exactly one of these.
type Layer uint8

const (
	LayerRAM     Layer = 0
	LayerBBR     Layer = 1
	LayerFlash   Layer = 2
	LayerDefault Layer = 7
)

// Valid reports whether l is one of the four defined scalar layers.
func (l Layer) Valid() bool {
	switch l {
	case LayerRAM, LayerBBR, LayerFlash, LayerDefault:
		return true
	default:
		return false
	}
}

// BitLayer is the destination bitmask for a SET — any subset of RAM/BBR/Flash.
type BitLayer uint8

const (
	BitLayerRAM   BitLayer = 1 << 0
	BitLayerBBR   BitLayer = 1 << 1
	BitLayerFlash BitLayer = 1 << 2
)
