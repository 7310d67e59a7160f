package codec

import (
	"fmt"
	"io"

	"backlog/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles the YAML state document
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode parses a YAML state document
func (c *YAMLCodec) Decode(r io.Reader) (*domain.State, error) {
	var ws wireState
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ws); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	state, err := ws.toDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid YAML state: %w", err)
	}
	return state, nil
}

// Encode writes state as YAML
func (c *YAMLCodec) Encode(state *domain.State, w io.Writer) error {
	out, err := prepare(state)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}
