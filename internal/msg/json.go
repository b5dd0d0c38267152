package msg

import (
	"encoding/json"
	"fmt"
)

// jsonEnvelope is the legacy JSON wire shape for a GpsMsg, named by the
// spec.md:§6 "Inter-node TCP" note: "A legacy format used JSON-serialised
// GpsMsg payloads; new implementations MUST support raw-bytes payloads and
// MAY accept JSON." Kind is carried for readability; decoding re-derives
// the Message from Raw via Parse so a legacy payload round-trips through
// exactly the same codec path as the wire bytes it wraps.
type jsonEnvelope struct {
	Kind string `json:"kind"`
	Raw  []byte `json:"raw"`
}

// ToJSON renders m in the legacy JSON-wrapped form: its Kind tag plus its
// canonical wire bytes, base64-encoded by encoding/json's []byte handling.
func ToJSON(m Message) ([]byte, error) {
	return json.Marshal(jsonEnvelope{Kind: m.Kind().String(), Raw: m.ParseWrite()})
}

// FromJSON decodes a legacy JSON-wrapped GpsMsg payload, parsing the
// embedded raw bytes with the same Parse dispatch used for the binary
// envelope path.
func FromJSON(b []byte) (Message, error) {
	var e jsonEnvelope
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("msg: decoding legacy JSON envelope: %w", err)
	}
	m, rest, err := Parse(e.Raw)
	if err != nil {
		return nil, fmt.Errorf("msg: parsing legacy JSON envelope's raw bytes: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: legacy JSON envelope raw bytes left %d unconsumed", ErrInvalid, len(rest))
	}
	return m, nil
}
