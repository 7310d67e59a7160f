package domain

// Epic represents a top-level work item owning an ordered set of stories
type Epic struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Status      Status   `json:"status" yaml:"status"`
	Stories     []uint32 `json:"stories" yaml:"stories"`
}

// NewEpic creates an open epic with no stories
func NewEpic(name, description string) *Epic {
	return &Epic{
		Name:        name,
		Description: description,
		Status:      StatusOpen,
		Stories:     []uint32{},
	}
}

// HasStory reports whether the story id is listed on the epic
func (e *Epic) HasStory(id uint32) bool {
	for _, storyID := range e.Stories {
		if storyID == id {
			return true
		}
	}
	return false
}

// RemoveStory drops the story id from the epic, preserving the order of the
// remaining ids. It returns false if the id was not listed.
func (e *Epic) RemoveStory(id uint32) bool {
	for i, storyID := range e.Stories {
		if storyID == id {
			e.Stories = append(e.Stories[:i], e.Stories[i+1:]...)
			return true
		}
	}
	return false
}

// Story represents a leaf work item belonging to one epic
type Story struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Status      Status `json:"status" yaml:"status"`
}

// NewStory creates an open story
func NewStory(name, description string) *Story {
	return &Story{
		Name:        name,
		Description: description,
		Status:      StatusOpen,
	}
}
