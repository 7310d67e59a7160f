// Package service implements the tracker orchestration layer for backlog.
//
// Tracker is the only writer of tracker state. It owns a
// repository.Repository and exposes the CRUD operations consumers call:
// ReadState, CreateEpic, CreateStory, DeleteEpic, DeleteStory,
// UpdateEpicStatus and UpdateStoryStatus.
//
// # Protocol
//
// Every mutation loads the full state, applies the change in memory and
// saves the full state before returning. A load failure is returned as is
// and nothing is saved. A failed lookup (ErrEpicNotFound, ErrStoryNotFound)
// returns before Save is called, so a failed operation never persists a
// partial change. There are no retries.
//
// # Identifiers
//
// New ids are LastItemID+1, drawn from one counter shared by epics and
// stories. Ids are never reused, even after deletes.
//
// # Referential integrity
//
// Creating a story appends its id to the owning epic. Deleting an epic
// deletes every story it lists. Deleting a story removes it from both the
// story map and its epic.
//
// # Concurrency
//
// Tracker holds no state between calls. Callers must keep a single writer
// per storage location; concurrent writers silently lose updates because
// the last save wins.
//
// # Event System
//
// Successful mutations are published on an optional EventBus.
package service
