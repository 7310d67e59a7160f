package main

import (
	"errors"

	"backlog/internal/repository"
)

// userMessage turns a command error into the line printed to the user.
// Lookup and status errors already read well ("epic 3: epic not found").
func userMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrStorageUnavailable):
		return "storage unavailable (run `backlog init` to create a new state): " + err.Error()
	case errors.Is(err, repository.ErrCorruptState):
		return "stored state is corrupt: " + err.Error()
	default:
		return err.Error()
	}
}
