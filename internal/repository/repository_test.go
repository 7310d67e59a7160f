package repository

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestUnavailable(t *testing.T) {
	err := Unavailable(fs.ErrNotExist, "read %s", "db.json")

	if !errors.Is(err, ErrStorageUnavailable) {
		t.Error("expected ErrStorageUnavailable")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected cause to be preserved")
	}
	if errors.Is(err, ErrCorruptState) {
		t.Error("did not expect ErrCorruptState")
	}
	if !strings.HasPrefix(err.Error(), "read db.json: storage unavailable") {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestCorrupt(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Corrupt(cause, "decode %s", "db.json")

	if !errors.Is(err, ErrCorruptState) {
		t.Error("expected ErrCorruptState")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be preserved")
	}
	if errors.Is(err, ErrStorageUnavailable) {
		t.Error("did not expect ErrStorageUnavailable")
	}
}
