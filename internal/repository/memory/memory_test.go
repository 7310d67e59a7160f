package memory

import (
	"context"
	"errors"
	"testing"

	"backlog/internal/domain"
	"backlog/internal/repository"

	"github.com/google/go-cmp/cmp"
)

func TestNewDefaultsToEmptyState(t *testing.T) {
	store := New(nil)

	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(domain.NewState(), state); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if store.LastSaved() != nil {
		t.Error("expected no saved state yet")
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	preset := domain.NewState()
	preset.Epics[1] = domain.NewEpic("epic", "")
	preset.LastItemID = 1
	store := New(preset)

	preset.Epics[1].Name = "mutated preset"
	state, _ := store.Load(context.Background())
	state.Epics[1].Name = "mutated load"

	again, _ := store.Load(context.Background())
	if again.Epics[1].Name != "epic" {
		t.Errorf("store state leaked: %q", again.Epics[1].Name)
	}
}

func TestSaveCapturesState(t *testing.T) {
	store := New(nil)
	ctx := context.Background()

	state := domain.NewState()
	state.Stories[1] = domain.NewStory("s", "")
	state.LastItemID = 1

	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	state.LastItemID = 99

	if store.Saves() != 1 {
		t.Errorf("expected 1 save, got %d", store.Saves())
	}
	if got := store.LastSaved().LastItemID; got != 1 {
		t.Errorf("expected captured counter 1, got %d", got)
	}
	if got := store.Snapshot().LastItemID; got != 1 {
		t.Errorf("expected current counter 1, got %d", got)
	}
}

func TestInjectedErrors(t *testing.T) {
	store := New(nil)
	ctx := context.Background()
	store.LoadErr = repository.ErrStorageUnavailable
	store.SaveErr = repository.ErrStorageUnavailable

	if _, err := store.Load(ctx); !errors.Is(err, repository.ErrStorageUnavailable) {
		t.Errorf("expected injected load error, got %v", err)
	}
	if err := store.Save(ctx, domain.NewState()); !errors.Is(err, repository.ErrStorageUnavailable) {
		t.Errorf("expected injected save error, got %v", err)
	}
	if store.Saves() != 0 {
		t.Errorf("failed save must not be counted, got %d", store.Saves())
	}
}
