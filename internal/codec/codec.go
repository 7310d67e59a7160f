package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"backlog/internal/domain"
)

// Codec converts a full tracker state to and from a text document
type Codec interface {
	Decode(r io.Reader) (*domain.State, error)
	Encode(state *domain.State, w io.Writer) error
	Format() string
}

// ForFormat returns the codec registered under name ("json" or "yaml")
func ForFormat(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", name)
}

// ForPath picks a codec from the file extension, defaulting to JSON
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCodec()
	}
	return NewJSONCodec()
}
