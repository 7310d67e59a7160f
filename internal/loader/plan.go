// Package loader reads planning documents that seed the tracker with epics
// and their stories.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"backlog/internal/domain"

	"gopkg.in/yaml.v3"
)

// PlanYAML represents the YAML file structure
type PlanYAML struct {
	Epics []EpicYAML `yaml:"epics"`
}

// EpicYAML represents an epic with its stories in YAML format
type EpicYAML struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Status      string      `yaml:"status,omitempty"`
	Stories     []StoryYAML `yaml:"stories,omitempty"`
}

// StoryYAML represents a story in YAML format
type StoryYAML struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Status      string `yaml:"status,omitempty"`
}

// Plan is a parsed planning document, in file order
type Plan struct {
	Epics []PlannedEpic
}

// PlannedEpic is an epic to create followed by its stories
type PlannedEpic struct {
	Epic    domain.Epic
	Stories []domain.Story
}

// StoryCount returns the number of stories across all epics
func (p *Plan) StoryCount() int {
	n := 0
	for _, e := range p.Epics {
		n += len(e.Stories)
	}
	return n
}

// LoadPlan loads a plan from a YAML file
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParsePlan(data)
}

// ParsePlan parses a plan from YAML bytes
func ParsePlan(data []byte) (*Plan, error) {
	var y PlanYAML
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&y); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return convertYAMLToPlan(&y)
}

func convertYAMLToPlan(y *PlanYAML) (*Plan, error) {
	plan := &Plan{Epics: make([]PlannedEpic, 0, len(y.Epics))}

	for i, e := range y.Epics {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("epic %d: name is required", i+1)
		}
		status, err := parseStatus(e.Status)
		if err != nil {
			return nil, fmt.Errorf("epic %q: %w", e.Name, err)
		}

		planned := PlannedEpic{
			Epic:    *domain.NewEpic(e.Name, e.Description),
			Stories: make([]domain.Story, 0, len(e.Stories)),
		}
		planned.Epic.Status = status

		for j, s := range e.Stories {
			if strings.TrimSpace(s.Name) == "" {
				return nil, fmt.Errorf("epic %q: story %d: name is required", e.Name, j+1)
			}
			status, err := parseStatus(s.Status)
			if err != nil {
				return nil, fmt.Errorf("story %q: %w", s.Name, err)
			}
			story := domain.NewStory(s.Name, s.Description)
			story.Status = status
			planned.Stories = append(planned.Stories, *story)
		}

		plan.Epics = append(plan.Epics, planned)
	}

	return plan, nil
}

// parseStatus accepts the same spellings as the command line. Empty means open.
func parseStatus(value string) (domain.Status, error) {
	if value == "" {
		return domain.StatusOpen, nil
	}
	return domain.ParseStatus(value)
}

// Creator is the part of the tracker a plan is applied through
type Creator interface {
	CreateEpic(ctx context.Context, epic domain.Epic) (uint32, error)
	CreateStory(ctx context.Context, story domain.Story, epicID uint32) (uint32, error)
}

// Created maps an imported epic id to the ids of its stories
type Created struct {
	EpicID   uint32
	StoryIDs []uint32
}

// Apply creates every epic of plan and then its stories, in file order.
// Each creation is saved on its own; on error the entries created so far
// remain and are returned alongside it.
func Apply(ctx context.Context, c Creator, plan *Plan) ([]Created, error) {
	created := make([]Created, 0, len(plan.Epics))

	for _, planned := range plan.Epics {
		epicID, err := c.CreateEpic(ctx, planned.Epic)
		if err != nil {
			return created, fmt.Errorf("create epic %q: %w", planned.Epic.Name, err)
		}
		created = append(created, Created{EpicID: epicID, StoryIDs: make([]uint32, 0, len(planned.Stories))})
		entry := &created[len(created)-1]

		for _, story := range planned.Stories {
			storyID, err := c.CreateStory(ctx, story, epicID)
			if err != nil {
				return created, fmt.Errorf("create story %q: %w", story.Name, err)
			}
			entry.StoryIDs = append(entry.StoryIDs, storyID)
		}
	}

	return created, nil
}
