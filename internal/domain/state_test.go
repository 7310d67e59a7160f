package domain

import (
	"errors"
	"reflect"
	"testing"
)

func sampleState() *State {
	s := NewState()
	epic := NewEpic("epic_1", "epic_description")
	epic.Stories = append(epic.Stories, 2)
	s.Epics[1] = epic
	s.Stories[2] = NewStory("story_1", "story_description")
	s.LastItemID = 2
	return s
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s.LastItemID != 0 {
		t.Errorf("expected LastItemID 0, got %d", s.LastItemID)
	}
	if s.Epics == nil || s.Stories == nil {
		t.Fatal("expected maps to be initialized")
	}
	if s.NextID() != 1 {
		t.Errorf("expected NextID 1, got %d", s.NextID())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("empty state should be valid: %v", err)
	}
}

func TestStateClone(t *testing.T) {
	original := sampleState()
	clone := original.Clone()

	if !reflect.DeepEqual(original, clone) {
		t.Fatalf("clone differs: %+v vs %+v", original, clone)
	}

	clone.Epics[1].Stories[0] = 99
	clone.Epics[1].Name = "changed"
	clone.Stories[2].Status = StatusClosed
	delete(clone.Stories, 2)

	if original.Epics[1].Stories[0] != 2 || original.Epics[1].Name != "epic_1" {
		t.Error("mutating clone epic changed the original")
	}
	if s, ok := original.Stories[2]; !ok || s.Status != StatusOpen {
		t.Error("mutating clone stories changed the original")
	}
}

func TestStateClonePreservesAppendIsolation(t *testing.T) {
	original := sampleState()
	clone := original.Clone()
	clone.Epics[1].Stories = append(clone.Epics[1].Stories, 7)

	if len(original.Epics[1].Stories) != 1 {
		t.Errorf("expected original stories untouched, got %v", original.Epics[1].Stories)
	}
}

func TestStateIDs(t *testing.T) {
	s := NewState()
	s.Epics[5] = NewEpic("a", "")
	s.Epics[1] = NewEpic("b", "")
	s.Stories[9] = NewStory("c", "")
	s.Stories[3] = NewStory("d", "")

	if got := s.EpicIDs(); !reflect.DeepEqual(got, []uint32{1, 5}) {
		t.Errorf("EpicIDs() = %v", got)
	}
	if got := s.StoryIDs(); !reflect.DeepEqual(got, []uint32{3, 9}) {
		t.Errorf("StoryIDs() = %v", got)
	}
	if got := s.MaxID(); got != 9 {
		t.Errorf("MaxID() = %d, want 9", got)
	}
}

func TestStateValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *State)
		valid  bool
	}{
		{
			name:   "sample state",
			mutate: func(s *State) {},
			valid:  true,
		},
		{
			name:   "counter ahead of ids",
			mutate: func(s *State) { s.LastItemID = 40 },
			valid:  true,
		},
		{
			name:   "counter behind ids",
			mutate: func(s *State) { s.LastItemID = 1 },
		},
		{
			name:   "dangling story reference",
			mutate: func(s *State) { s.Epics[1].Stories = append(s.Epics[1].Stories, 7); s.LastItemID = 7 },
		},
		{
			name: "shared id",
			mutate: func(s *State) {
				s.Stories[1] = NewStory("dup", "")
			},
		},
		{
			name: "story owned twice",
			mutate: func(s *State) {
				other := NewEpic("other", "")
				other.Stories = []uint32{2}
				s.Epics[3] = other
				s.LastItemID = 3
			},
		},
		{
			name:   "unknown epic status",
			mutate: func(s *State) { s.Epics[1].Status = "Blocked" },
		},
		{
			name:   "unknown story status",
			mutate: func(s *State) { s.Stories[2].Status = "" },
		},
		{
			name:   "null epic",
			mutate: func(s *State) { s.Epics[1] = nil },
		},
		{
			name:   "missing map",
			mutate: func(s *State) { s.Stories = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			tt.mutate(s)
			err := s.Validate()
			if tt.valid && err != nil {
				t.Fatalf("expected valid state, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvariant) {
				t.Fatalf("expected ErrInvariant, got %v", err)
			}
		})
	}
}
