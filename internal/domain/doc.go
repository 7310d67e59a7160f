// Package domain defines the core domain types for the backlog issue tracker.
//
// This package contains the entities persisted by the tracker: epics, the
// stories they own, and the State snapshot that holds both.
//
// # Core Types
//
// Epic is a top-level work item. It records the ids of its stories in
// insertion order; a Story carries no back-reference to its epic.
//
// Story is a leaf work item belonging to exactly one epic.
//
// Status is the lifecycle marker shared by epics and stories. Any status may
// be set at any time; there is no transition state machine.
//
// State is the single persisted aggregate: the id counter plus both entity
// maps. It is loaded and saved as a whole.
//
// # Identifiers
//
// Epics and stories draw ids from one counter, State.LastItemID, so an epic
// and a story never share an id.
//
// # Design Principles
//
// - Plain value types with construction defaults
// - No storage or presentation dependencies
// - Invariants checked by State.Validate, enforced by the service layer
package domain
