package msg

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/cfgval"
	"github.com/bramburn/gnsshub/internal/wire"
)

// CFG message ids this package decodes.
const (
	CfgValSetID byte = 0x8A
	CfgValGetID byte = 0x8B
)

const (
	cfgValGetVersionRequest  = 0x00
	cfgValGetVersionResponse = 0x01
)

// CfgValSet is a CFG-VALSET message: a batch of typed key/value pairs to
// apply to the given layer bitmask. internal/cfgtxn builds these in chunks
// of at most 64 values.
type CfgValSet struct {
	Layers cfgval.BitLayer
	Values []cfgval.Value
}

func (c *CfgValSet) ClassID() (byte, byte) { return ClassCfg, CfgValSetID }
func (c *CfgValSet) encode(w *wire.Writer) {
	w.WriteU8(0) // version
	w.WriteU8(byte(c.Layers))
	w.WriteU8(0) // reserved
	w.WriteU8(0) // reserved
	for _, v := range c.Values {
		v.EncodeKeyValue(w)
	}
}

// CfgValGet is a CFG-VALGET request (Keys set, Values nil) or response
// (Values set, Keys nil) depending on which end produced it.
type CfgValGet struct {
	Layer    cfgval.Layer
	Position uint16
	Keys     []cfgval.Key
	Values   []cfgval.Value
	response bool
}

func (c *CfgValGet) ClassID() (byte, byte) { return ClassCfg, CfgValGetID }
func (c *CfgValGet) encode(w *wire.Writer) {
	if c.response {
		w.WriteU8(cfgValGetVersionResponse)
	} else {
		w.WriteU8(cfgValGetVersionRequest)
	}
	w.WriteU8(byte(c.Layer))
	w.WriteU16LE(c.Position)
	if c.response {
		for _, v := range c.Values {
			v.EncodeKeyValue(w)
		}
	} else {
		for _, k := range c.Keys {
			w.WriteU32LE(uint32(k))
		}
	}
}

// NewCfgValSetRequest builds the typed request body for a VALSET chunk.
func NewCfgValSetRequest(layers cfgval.BitLayer, values []cfgval.Value) *CfgValSet {
	return &CfgValSet{Layers: layers, Values: values}
}

// NewCfgValGetRequest builds the typed request body for a VALGET chunk.
func NewCfgValGetRequest(layer cfgval.Layer, keys []cfgval.Key) *CfgValGet {
	return &CfgValGet{Layer: layer, Keys: keys, response: false}
}

func decodeCfg(id byte, payload []byte) (Body, error, bool) {
	switch id {
	case CfgValSetID:
		if len(payload) < 4 {
			return nil, fmt.Errorf("%w: cfg-valset length %d", ErrInvalidLen, len(payload)), true
		}
		r := readerFor(payload)
		if _, err := r.ReadU8(); err != nil { // version
			return nil, fmt.Errorf("cfg-valset: %w", err), true
		}
		layers, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("cfg-valset: %w", err), true
		}
		if _, err := r.ReadN(2); err != nil { // reserved
			return nil, fmt.Errorf("cfg-valset: %w", err), true
		}
		var values []cfgval.Value
		for r.Len() > 0 {
			v, err := cfgval.DecodeValue(r)
			if err != nil {
				return nil, fmt.Errorf("cfg-valset: %w", err), true
			}
			values = append(values, v)
		}
		return &CfgValSet{Layers: cfgval.BitLayer(layers), Values: values}, nil, true

	case CfgValGetID:
		if len(payload) < 4 {
			return nil, fmt.Errorf("%w: cfg-valget length %d", ErrInvalidLen, len(payload)), true
		}
		r := readerFor(payload)
		version, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("cfg-valget: %w", err), true
		}
		layer, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("cfg-valget: %w", err), true
		}
		position, err := r.ReadU16LE()
		if err != nil {
			return nil, fmt.Errorf("cfg-valget: %w", err), true
		}
		g := &CfgValGet{Layer: cfgval.Layer(layer), Position: position}
		if version == cfgValGetVersionResponse {
			g.response = true
			for r.Len() > 0 {
				v, err := cfgval.DecodeValue(r)
				if err != nil {
					return nil, fmt.Errorf("cfg-valget response: %w", err), true
				}
				g.Values = append(g.Values, v)
			}
		} else {
			for r.Len() > 0 {
				k, err := r.ReadU32LE()
				if err != nil {
					return nil, fmt.Errorf("cfg-valget request: %w", err), true
				}
				g.Keys = append(g.Keys, cfgval.Key(k))
			}
		}
		return g, nil, true
	}
	return nil, nil, false
}
