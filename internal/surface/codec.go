// internal/surface/codec.go
//
// JSON encoding of Envelope frames in both directions.

package surface

import (
	"encoding/json"
	"fmt"
)

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("surface: encode with empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("surface: encode %q with nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope splits a frame into type and raw payload.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("surface: decode empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("surface: frame without type")
	}
	return e, nil
}

// DecodePayload unmarshals the envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("surface: empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
