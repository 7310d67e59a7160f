// Package repository defines the persistence port for backlog.
//
// The Repository interface has exactly two operations: Load returns the full
// domain.State and Save replaces it. The service layer reaches storage only
// through this interface, so the medium can be swapped without touching the
// tracker.
//
// # Implementations
//
// - file: one JSON or YAML document on disk, replaced atomically on save
// - sqlite: the same snapshot spread over relational tables
// - memory: an in-memory double for tests
//
// # Errors
//
// Load fails with ErrStorageUnavailable when no bytes could be obtained and
// with ErrCorruptState when bytes were obtained but do not decode into a
// valid state. Save fails with ErrStorageUnavailable. Both sentinels wrap
// the underlying cause and are matched with errors.Is.
//
// # Concurrency
//
// Repositories assume a single writer. Two processes saving to the same
// location race and the last save wins.
package repository
