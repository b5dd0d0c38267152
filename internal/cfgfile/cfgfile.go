// Package cfgfile implements the JSON configuration file format: a flat
// array of `{kind, value}` objects naming catalogue keys by their
// kebab-case name. An unknown key rejects the whole file — this is
// deliberately not a best-effort loader.
package cfgfile

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/bramburn/gnsshub/internal/cfgval"
)

// entry is the wire shape of one array element.
type entry struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// Decode parses a configuration file's JSON bytes into typed Values,
// rejecting the whole file if any entry names an unknown key or a value
// that doesn't fit the key's catalogue type.
func Decode(data []byte) ([]cfgval.Value, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cfgfile: parsing JSON array: %w", err)
	}

	values := make([]cfgval.Value, 0, len(entries))
	for i, e := range entries {
		key, typ, ok := cfgval.ByName(e.Kind)
		if !ok {
			return nil, fmt.Errorf("cfgfile: entry %d: unknown configuration key %q", i, e.Kind)
		}
		v, err := decodeValue(key, typ, e.Value)
		if err != nil {
			return nil, fmt.Errorf("cfgfile: entry %d (%s): %w", i, e.Kind, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func decodeValue(key cfgval.Key, typ cfgval.Type, raw json.RawMessage) (cfgval.Value, error) {
	switch typ {
	case cfgval.TypeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected bool: %w", err)
		}
		return cfgval.NewBool(key, b), nil
	case cfgval.TypeU8, cfgval.TypeEnum8:
		var u uint8
		if err := json.Unmarshal(raw, &u); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected uint8: %w", err)
		}
		if typ == cfgval.TypeEnum8 {
			return cfgval.NewEnum8(key, u), nil
		}
		return cfgval.NewU8(key, u), nil
	case cfgval.TypeI8:
		var i int8
		if err := json.Unmarshal(raw, &i); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected int8: %w", err)
		}
		return cfgval.NewI8(key, i), nil
	case cfgval.TypeU16:
		var u uint16
		if err := json.Unmarshal(raw, &u); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected uint16: %w", err)
		}
		return cfgval.NewU16(key, u), nil
	case cfgval.TypeI16:
		var i int16
		if err := json.Unmarshal(raw, &i); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected int16: %w", err)
		}
		return cfgval.NewI16(key, i), nil
	case cfgval.TypeU32:
		var u uint32
		if err := json.Unmarshal(raw, &u); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected uint32: %w", err)
		}
		return cfgval.NewU32(key, u), nil
	case cfgval.TypeI32:
		var i int32
		if err := json.Unmarshal(raw, &i); err != nil {
			return cfgval.Value{}, fmt.Errorf("expected int32: %w", err)
		}
		return cfgval.NewI32(key, i), nil
	default:
		return cfgval.Value{}, fmt.Errorf("unsupported catalogue type %v", typ)
	}
}

// Encode renders values back to the `{kind, value}` array format.
func Encode(values []cfgval.Value) ([]byte, error) {
	entries := make([]map[string]any, 0, len(values))
	for _, v := range values {
		rendered, err := renderValue(v)
		if err != nil {
			return nil, fmt.Errorf("cfgfile: encoding %s: %w", v.Key, err)
		}
		entries = append(entries, map[string]any{
			"kind":  v.Key.String(),
			"value": rendered,
		})
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Render decodes v's payload into the scalar the file format (and the
// config CLI) shows for it.
func Render(v cfgval.Value) (any, error) {
	return renderValue(v)
}

func renderValue(v cfgval.Value) (any, error) {
	typ, ok := v.Key.Type()
	if !ok {
		return nil, fmt.Errorf("key not in catalogue")
	}
	switch typ {
	case cfgval.TypeBool:
		return v.Bool()
	case cfgval.TypeU8, cfgval.TypeEnum8:
		return v.U8()
	case cfgval.TypeU32:
		return v.U32()
	default:
		if len(v.Raw) != typ.Size() {
			return nil, fmt.Errorf("payload is %d bytes, want %d", len(v.Raw), typ.Size())
		}
		switch typ {
		case cfgval.TypeI8:
			return int8(v.Raw[0]), nil
		case cfgval.TypeU16:
			return binary.LittleEndian.Uint16(v.Raw), nil
		case cfgval.TypeI16:
			return int16(binary.LittleEndian.Uint16(v.Raw)), nil
		case cfgval.TypeI32:
			return int32(binary.LittleEndian.Uint32(v.Raw)), nil
		}
		return v.Raw, nil
	}
}
