package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Codec is a Connect codec for the plain structs in this package. It is
// registered under the name "json", so it serves application/json and
// application/connect+json requests.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	// Connect sends an empty body for messages without fields.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithCodec is the option both handlers and clients need.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
