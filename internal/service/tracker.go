package service

import (
	"context"
	"fmt"
	"math"

	"backlog/internal/domain"
	"backlog/internal/repository"

	"github.com/juju/errors"
	"go.uber.org/zap"
)

const (
	// ErrEpicNotFound is returned when an epic id is not in the state.
	ErrEpicNotFound = errors.ConstError("epic not found")
	// ErrStoryNotFound is returned when a story id is not in the state or
	// not owned by the given epic.
	ErrStoryNotFound = errors.ConstError("story not found")
	// ErrIDsExhausted is returned when the id counter cannot advance.
	ErrIDsExhausted = errors.ConstError("item ids exhausted")
)

// Tracker provides the CRUD operations over the persisted state
type Tracker struct {
	repo     repository.Repository
	logger   *zap.Logger
	eventBus *EventBus
}

// Option configures a Tracker
type Option func(*Tracker)

// WithLogger sets the logger used for operation tracing
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithEventBus publishes successful mutations on bus
func WithEventBus(bus *EventBus) Option {
	return func(t *Tracker) {
		t.eventBus = bus
	}
}

// NewTracker creates a tracker over repo
func NewTracker(repo repository.Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ReadState returns the current full state
func (t *Tracker) ReadState(ctx context.Context) (*domain.State, error) {
	state, err := t.repo.Load(ctx)
	if err != nil {
		t.logger.Warn("failed to load state", zap.String("op", "read_state"), zap.Error(err))
		return nil, err
	}
	return state, nil
}

// GetEpic returns the epic with id
func (t *Tracker) GetEpic(ctx context.Context, id uint32) (*domain.Epic, error) {
	state, err := t.ReadState(ctx)
	if err != nil {
		return nil, err
	}
	epic, ok := state.Epics[id]
	if !ok {
		return nil, epicNotFound(id)
	}
	return epic, nil
}

// GetStory returns the story with id
func (t *Tracker) GetStory(ctx context.Context, id uint32) (*domain.Story, error) {
	state, err := t.ReadState(ctx)
	if err != nil {
		return nil, err
	}
	story, ok := state.Stories[id]
	if !ok {
		return nil, storyNotFound(id)
	}
	return story, nil
}

// CreateEpic stores epic under a new id and returns the id. The epic always
// starts without stories; an empty status defaults to Open.
func (t *Tracker) CreateEpic(ctx context.Context, epic domain.Epic) (uint32, error) {
	status, err := defaultStatus(epic.Status)
	if err != nil {
		return 0, err
	}

	var id uint32
	err = t.mutate(ctx, "create_epic", func(state *domain.State) error {
		allocated, err := allocateID(state)
		if err != nil {
			return err
		}
		id = allocated
		state.Epics[id] = &domain.Epic{
			Name:        epic.Name,
			Description: epic.Description,
			Status:      status,
			Stories:     []uint32{},
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	t.publish(EventEpicCreated, map[string]any{"epic_id": id})
	return id, nil
}

// CreateStory stores story under a new id, appends the id to the epic and
// returns it. An empty status defaults to Open.
func (t *Tracker) CreateStory(ctx context.Context, story domain.Story, epicID uint32) (uint32, error) {
	status, err := defaultStatus(story.Status)
	if err != nil {
		return 0, err
	}

	var id uint32
	err = t.mutate(ctx, "create_story", func(state *domain.State) error {
		epic, ok := state.Epics[epicID]
		if !ok {
			return epicNotFound(epicID)
		}
		allocated, err := allocateID(state)
		if err != nil {
			return err
		}
		id = allocated
		state.Stories[id] = &domain.Story{
			Name:        story.Name,
			Description: story.Description,
			Status:      status,
		}
		epic.Stories = append(epic.Stories, id)
		return nil
	}, zap.Uint32("epic_id", epicID))
	if err != nil {
		return 0, err
	}

	t.publish(EventStoryCreated, map[string]any{"epic_id": epicID, "story_id": id})
	return id, nil
}

// DeleteEpic removes the epic and every story it lists
func (t *Tracker) DeleteEpic(ctx context.Context, epicID uint32) error {
	var removed []uint32
	err := t.mutate(ctx, "delete_epic", func(state *domain.State) error {
		epic, ok := state.Epics[epicID]
		if !ok {
			return epicNotFound(epicID)
		}
		for _, storyID := range epic.Stories {
			delete(state.Stories, storyID)
		}
		removed = epic.Stories
		delete(state.Epics, epicID)
		return nil
	}, zap.Uint32("epic_id", epicID))
	if err != nil {
		return err
	}

	t.publish(EventEpicDeleted, map[string]any{"epic_id": epicID, "story_ids": removed})
	return nil
}

// DeleteStory removes the story from the state and from the epic's list.
// The story must belong to the epic.
func (t *Tracker) DeleteStory(ctx context.Context, epicID, storyID uint32) error {
	err := t.mutate(ctx, "delete_story", func(state *domain.State) error {
		epic, ok := state.Epics[epicID]
		if !ok {
			return epicNotFound(epicID)
		}
		if _, ok := state.Stories[storyID]; !ok {
			return storyNotFound(storyID)
		}
		if !epic.RemoveStory(storyID) {
			return fmt.Errorf("story %d in epic %d: %w", storyID, epicID, ErrStoryNotFound)
		}
		delete(state.Stories, storyID)
		return nil
	}, zap.Uint32("epic_id", epicID), zap.Uint32("story_id", storyID))
	if err != nil {
		return err
	}

	t.publish(EventStoryDeleted, map[string]any{"epic_id": epicID, "story_id": storyID})
	return nil
}

// UpdateEpicStatus sets the epic status. Any transition is allowed.
func (t *Tracker) UpdateEpicStatus(ctx context.Context, epicID uint32, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus)
	}

	err := t.mutate(ctx, "update_epic_status", func(state *domain.State) error {
		epic, ok := state.Epics[epicID]
		if !ok {
			return epicNotFound(epicID)
		}
		epic.Status = status
		return nil
	}, zap.Uint32("epic_id", epicID), zap.String("status", string(status)))
	if err != nil {
		return err
	}

	t.publish(EventEpicStatusUpdated, map[string]any{"epic_id": epicID, "status": status})
	return nil
}

// UpdateStoryStatus sets the story status. Any transition is allowed.
func (t *Tracker) UpdateStoryStatus(ctx context.Context, storyID uint32, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus)
	}

	err := t.mutate(ctx, "update_story_status", func(state *domain.State) error {
		story, ok := state.Stories[storyID]
		if !ok {
			return storyNotFound(storyID)
		}
		story.Status = status
		return nil
	}, zap.Uint32("story_id", storyID), zap.String("status", string(status)))
	if err != nil {
		return err
	}

	t.publish(EventStoryStatusUpdated, map[string]any{"story_id": storyID, "status": status})
	return nil
}

// mutate runs the load, apply, save sequence. Save is only reached when
// both the load and apply succeed.
func (t *Tracker) mutate(ctx context.Context, op string, apply func(*domain.State) error, fields ...zap.Field) error {
	logger := t.logger.With(append(fields, zap.String("op", op))...)

	state, err := t.repo.Load(ctx)
	if err != nil {
		logger.Warn("failed to load state", zap.Error(err))
		return err
	}

	if err := apply(state); err != nil {
		logger.Debug("operation rejected", zap.Error(err))
		return err
	}

	if err := t.repo.Save(ctx, state); err != nil {
		logger.Warn("failed to save state", zap.Error(err))
		return err
	}

	logger.Debug("state saved", zap.Uint32("last_item_id", state.LastItemID))
	return nil
}

func (t *Tracker) publish(eventType EventType, payload map[string]any) {
	if t.eventBus == nil {
		return
	}
	t.eventBus.Publish(Event{Type: eventType, Payload: payload})
}

func allocateID(state *domain.State) (uint32, error) {
	if state.LastItemID == math.MaxUint32 {
		return 0, ErrIDsExhausted
	}
	id := state.NextID()
	state.LastItemID = id
	return id, nil
}

func defaultStatus(status domain.Status) (domain.Status, error) {
	if status == "" {
		return domain.StatusOpen, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus)
	}
	return status, nil
}

func epicNotFound(id uint32) error {
	return fmt.Errorf("epic %d: %w", id, ErrEpicNotFound)
}

func storyNotFound(id uint32) error {
	return fmt.Errorf("story %d: %w", id, ErrStoryNotFound)
}
