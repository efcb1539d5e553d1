package readme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload is returned when the request body is not a JSON object.
	ErrInvalidPayload = errors.New("payload must be a JSON object")
	// ErrInvalidPrompt is returned when "prompt" is missing or not a string.
	ErrInvalidPrompt = errors.New("prompt must be a string")
)

// Payload is a decoded generation request. The raw object is retained so the
// echoed data block keeps the caller's field order.
type Payload struct {
	Prompt string
	raw    []byte
}

// ParsePayload validates body as a JSON object carrying a string "prompt".
func ParsePayload(body []byte) (*Payload, error) {
	raw := bytes.TrimSpace(body)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if fields == nil {
		return nil, ErrInvalidPayload
	}
	v, ok := fields["prompt"]
	if !ok {
		return nil, fmt.Errorf("%w: missing", ErrInvalidPrompt)
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '"' {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPrompt, v)
	}
	var prompt string
	if err := json.Unmarshal(v, &prompt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrompt, err)
	}
	return &Payload{Prompt: prompt, raw: raw}, nil
}

// Raw returns the payload as received, without surrounding whitespace.
func (p *Payload) Raw() []byte { return p.raw }
