package domain

import (
	"fmt"
	"sort"

	"github.com/juju/errors"
)

// ErrInvariant is wrapped by every State.Validate failure.
const ErrInvariant = errors.ConstError("state invariant violated")

// State is the complete persisted snapshot of the tracker
type State struct {
	LastItemID uint32            `json:"last_item_id" yaml:"last_item_id"`
	Epics      map[uint32]*Epic  `json:"epics" yaml:"epics"`
	Stories    map[uint32]*Story `json:"stories" yaml:"stories"`
}

// NewState creates an empty state with a zero id counter
func NewState() *State {
	return &State{
		Epics:   make(map[uint32]*Epic),
		Stories: make(map[uint32]*Story),
	}
}

// NextID returns the id the next created item will receive
func (s *State) NextID() uint32 {
	return s.LastItemID + 1
}

// MaxID returns the largest id present in either map, or 0 when both are empty
func (s *State) MaxID() uint32 {
	var max uint32
	for id := range s.Epics {
		if id > max {
			max = id
		}
	}
	for id := range s.Stories {
		if id > max {
			max = id
		}
	}
	return max
}

// EpicIDs returns the epic ids in ascending order
func (s *State) EpicIDs() []uint32 {
	return sortedKeys(s.Epics)
}

// StoryIDs returns the story ids in ascending order
func (s *State) StoryIDs() []uint32 {
	return sortedKeys(s.Stories)
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	clone := &State{
		LastItemID: s.LastItemID,
		Epics:      make(map[uint32]*Epic, len(s.Epics)),
		Stories:    make(map[uint32]*Story, len(s.Stories)),
	}
	for id, epic := range s.Epics {
		if epic == nil {
			clone.Epics[id] = nil
			continue
		}
		e := *epic
		e.Stories = append(make([]uint32, 0, len(epic.Stories)), epic.Stories...)
		clone.Epics[id] = &e
	}
	for id, story := range s.Stories {
		if story == nil {
			clone.Stories[id] = nil
			continue
		}
		st := *story
		clone.Stories[id] = &st
	}
	return clone
}

// Validate checks the invariants every persisted state must satisfy:
// the counter covers every id, epic and story ids never collide, statuses
// are known, and every story listed on an epic exists and is listed once.
func (s *State) Validate() error {
	if s.Epics == nil || s.Stories == nil {
		return fmt.Errorf("missing entity map: %w", ErrInvariant)
	}
	if max := s.MaxID(); max > s.LastItemID {
		return fmt.Errorf("last_item_id %d below max id %d: %w", s.LastItemID, max, ErrInvariant)
	}

	for _, id := range s.StoryIDs() {
		story := s.Stories[id]
		if story == nil {
			return fmt.Errorf("story %d is null: %w", id, ErrInvariant)
		}
		if _, ok := s.Epics[id]; ok {
			return fmt.Errorf("id %d used by both an epic and a story: %w", id, ErrInvariant)
		}
		if !story.Status.Valid() {
			return fmt.Errorf("story %d status %q: %w", id, story.Status, ErrInvariant)
		}
	}

	owner := make(map[uint32]uint32)
	for _, id := range s.EpicIDs() {
		epic := s.Epics[id]
		if epic == nil {
			return fmt.Errorf("epic %d is null: %w", id, ErrInvariant)
		}
		if !epic.Status.Valid() {
			return fmt.Errorf("epic %d status %q: %w", id, epic.Status, ErrInvariant)
		}
		for _, storyID := range epic.Stories {
			if _, ok := s.Stories[storyID]; !ok {
				return fmt.Errorf("epic %d references missing story %d: %w", id, storyID, ErrInvariant)
			}
			if prev, ok := owner[storyID]; ok {
				return fmt.Errorf("story %d listed by epic %d and epic %d: %w", storyID, prev, id, ErrInvariant)
			}
			owner[storyID] = id
		}
	}

	return nil
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
