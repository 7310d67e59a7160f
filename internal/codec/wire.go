package codec

import (
	"errors"
	"fmt"

	"backlog/internal/domain"
)

// Wire types mirror domain.State with pointer fields so that a missing
// field can be told apart from a zero value.

type wireState struct {
	LastItemID *uint32                `json:"last_item_id" yaml:"last_item_id"`
	Epics      *map[uint32]*wireEpic  `json:"epics" yaml:"epics"`
	Stories    *map[uint32]*wireStory `json:"stories" yaml:"stories"`
}

type wireEpic struct {
	Name        *string        `json:"name" yaml:"name"`
	Description *string        `json:"description" yaml:"description"`
	Status      *domain.Status `json:"status" yaml:"status"`
	Stories     *[]uint32      `json:"stories" yaml:"stories"`
}

type wireStory struct {
	Name        *string        `json:"name" yaml:"name"`
	Description *string        `json:"description" yaml:"description"`
	Status      *domain.Status `json:"status" yaml:"status"`
}

func missing(field string) error {
	return fmt.Errorf("missing field %q", field)
}

func (w *wireState) toDomain() (*domain.State, error) {
	switch {
	case w.LastItemID == nil:
		return nil, missing("last_item_id")
	case w.Epics == nil:
		return nil, missing("epics")
	case w.Stories == nil:
		return nil, missing("stories")
	}

	state := domain.NewState()
	state.LastItemID = *w.LastItemID

	for id, we := range *w.Epics {
		if we == nil {
			return nil, fmt.Errorf("epic %d: null value", id)
		}
		if we.Name == nil || we.Description == nil || we.Status == nil || we.Stories == nil {
			return nil, fmt.Errorf("epic %d: missing field", id)
		}
		state.Epics[id] = &domain.Epic{
			Name:        *we.Name,
			Description: *we.Description,
			Status:      *we.Status,
			Stories:     append([]uint32{}, (*we.Stories)...),
		}
	}

	for id, ws := range *w.Stories {
		if ws == nil {
			return nil, fmt.Errorf("story %d: null value", id)
		}
		if ws.Name == nil || ws.Description == nil || ws.Status == nil {
			return nil, fmt.Errorf("story %d: missing field", id)
		}
		state.Stories[id] = &domain.Story{
			Name:        *ws.Name,
			Description: *ws.Description,
			Status:      *ws.Status,
		}
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

// prepare returns a copy of state with nil collections replaced by empty
// ones, so documents never carry null where a list or map is expected.
func prepare(state *domain.State) (*domain.State, error) {
	if state == nil {
		return nil, errors.New("nil state")
	}
	out := state.Clone()
	if out.Epics == nil {
		out.Epics = make(map[uint32]*domain.Epic)
	}
	if out.Stories == nil {
		out.Stories = make(map[uint32]*domain.Story)
	}
	for _, epic := range out.Epics {
		if epic != nil && epic.Stories == nil {
			epic.Stories = []uint32{}
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
