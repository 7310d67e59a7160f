package main

import (
	"fmt"
	"os"
	"path/filepath"

	"backlog/internal/codec"
	"backlog/internal/config"
	"backlog/internal/repository"
	"backlog/internal/repository/file"
	"backlog/internal/repository/sqlite"
)

// openRepository builds the store selected by cfg. The returned closer is
// always non-nil.
func openRepository(cfg *config.Config) (repository.Repository, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		var opts []file.Option
		if cfg.Storage.Format != "" {
			c, err := codec.ForFormat(cfg.Storage.Format)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, file.WithCodec(c))
		}
		return file.New(cfg.Storage.Path, opts...), func() error { return nil }, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, repository.Unavailable(err, "failed to create %s", dir)
			}
		}
		repo, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
