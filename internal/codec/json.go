package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"backlog/internal/domain"
)

// JSONCodec handles the JSON state document
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Decode parses a state document. Trailing content after the document is an error.
func (c *JSONCodec) Decode(r io.Reader) (*domain.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var ws wireState
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	state, err := ws.toDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON state: %w", err)
	}
	return state, nil
}

// Encode writes state as JSON. Map keys are emitted in ascending order.
func (c *JSONCodec) Encode(state *domain.State, w io.Writer) error {
	out, err := prepare(state)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
