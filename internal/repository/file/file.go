// Package file implements repository.Repository as a single document on disk.
package file

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"backlog/internal/codec"
	"backlog/internal/domain"
	"backlog/internal/repository"

	"github.com/juju/utils/v4"
)

var _ repository.Repository = (*Store)(nil)

// Store persists the full state as one JSON or YAML file
type Store struct {
	path  string
	codec codec.Codec
	perm  fs.FileMode
}

// Option configures a Store
type Option func(*Store)

// WithCodec overrides the codec chosen from the file extension
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// WithPerm sets the permission bits used when the file is written
func WithPerm(perm fs.FileMode) Option {
	return func(s *Store) {
		s.perm = perm
	}
}

// New creates a store for the file at path. Nothing is read or written until
// the first Load, Save or Init.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		codec: codec.ForPath(path),
		perm:  0644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the state file
func (s *Store) Path() string {
	return s.path
}

// Format returns the document format of the state file
func (s *Store) Format() string {
	return s.codec.Format()
}

// Load reads and decodes the whole file
func (s *Store) Load(ctx context.Context) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.Unavailable(err, "load %s", s.path)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, repository.Unavailable(err, "read %s", s.path)
	}

	state, err := s.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, repository.Corrupt(err, "decode %s", s.path)
	}

	return state, nil
}

// Save encodes state and replaces the file. The new content is written to a
// temporary file in the same directory and renamed over the old one, so a
// failed save leaves the previous content in place.
func (s *Store) Save(ctx context.Context, state *domain.State) error {
	if err := ctx.Err(); err != nil {
		return repository.Unavailable(err, "save %s", s.path)
	}

	var buf bytes.Buffer
	if err := s.codec.Encode(state, &buf); err != nil {
		return repository.Corrupt(err, "encode %s", s.path)
	}

	if err := utils.AtomicWriteFile(s.path, buf.Bytes(), s.perm); err != nil {
		return repository.Unavailable(err, "write %s", s.path)
	}

	return nil
}

// Init writes an empty state if the file does not exist yet, creating parent
// directories as needed. It reports whether a new file was created; an
// existing file is never modified.
func (s *Store) Init(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, repository.Unavailable(err, "stat %s", s.path)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return false, repository.Unavailable(err, "create directory for %s", s.path)
	}

	if err := s.Save(ctx, domain.NewState()); err != nil {
		return false, err
	}
	return true, nil
}
