package encoding

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RoundPayload is what a round source delivers for one cascade step: the
// column-major matrix and, when the step pays, its serialized descriptors.
type RoundPayload struct {
	Matrix  []string `json:"matrix"`
	Combine []string `json:"combine,omitempty"`
}

// Ended reports whether the payload closes a spin sequence.
func (p RoundPayload) Ended() bool { return len(p.Combine) == 0 }

func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// ToJson renders v for logs; encoding failures yield an empty string.
func ToJson(v any) string {
	d, _ := json.MarshalToString(v)
	return d
}

// DecodePayload parses one payload. It checks only the JSON shape.
func DecodePayload(data []byte) (RoundPayload, error) {
	var p RoundPayload
	err := json.Unmarshal(data, &p)
	return p, err
}

// DecodePayloads parses a JSON array of payloads.
func DecodePayloads(data []byte) ([]RoundPayload, error) {
	var ps []RoundPayload
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// RoundEvent is the broker message published for every delivered round.
type RoundEvent struct {
	RequestID  string       `json:"request_id"`
	SourceID   string       `json:"source_id"`
	SequenceID string       `json:"sequence_id"`
	Step       int          `json:"step"`
	Score      string       `json:"score"`
	Payload    RoundPayload `json:"payload"`
	Timestamp  int64        `json:"ts"`
}

// DecodeEvent parses a published round event.
func DecodeEvent(data []byte) (RoundEvent, error) {
	var e RoundEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
