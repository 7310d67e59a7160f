// Package sqlite implements repository.Repository on top of SQLite.
//
// The state is spread over relational tables but is still read and written
// as one snapshot: Save replaces every row inside a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"backlog/internal/domain"
	"backlog/internal/repository"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ repository.Repository = (*Repository)(nil)

const lastItemIDKey = "last_item_id"

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens the database at dsn and creates the schema if needed
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, repository.Unavailable(err, "failed to open database")
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, repository.Unavailable(err, "failed to migrate database")
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS epics (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS epic_stories (
		epic_id INTEGER NOT NULL,
		story_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (epic_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_epic_stories_story ON epic_stories(story_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Load reads every table into a single state
func (r *Repository) Load(ctx context.Context) (*domain.State, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, repository.Unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	state := domain.NewState()

	var lastItemID int64
	err = tx.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, lastItemIDKey).Scan(&lastItemID)
	switch {
	case err == sql.ErrNoRows:
		lastItemID = 0
	case err != nil:
		return nil, repository.Unavailable(err, "failed to query last_item_id")
	}
	if state.LastItemID, err = toID(lastItemID); err != nil {
		return nil, repository.Corrupt(err, "invalid last_item_id")
	}

	if err := r.loadEpics(ctx, tx, state); err != nil {
		return nil, err
	}
	if err := r.loadStories(ctx, tx, state); err != nil {
		return nil, err
	}
	if err := r.loadEpicStories(ctx, tx, state); err != nil {
		return nil, err
	}

	if err := state.Validate(); err != nil {
		return nil, repository.Corrupt(err, "invalid stored state")
	}
	return state, nil
}

func (r *Repository) loadEpics(ctx context.Context, tx *sql.Tx, state *domain.State) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, description, status FROM epics`)
	if err != nil {
		return repository.Unavailable(err, "failed to query epics")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawID                     int64
			name, description, status string
		)
		if err := rows.Scan(&rawID, &name, &description, &status); err != nil {
			return repository.Corrupt(err, "failed to scan epic")
		}
		id, err := toID(rawID)
		if err != nil {
			return repository.Corrupt(err, "invalid epic id")
		}
		state.Epics[id] = &domain.Epic{
			Name:        name,
			Description: description,
			Status:      domain.Status(status),
			Stories:     []uint32{},
		}
	}

	if err := rows.Err(); err != nil {
		return repository.Unavailable(err, "error iterating epics")
	}
	return nil
}

func (r *Repository) loadStories(ctx context.Context, tx *sql.Tx, state *domain.State) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, description, status FROM stories`)
	if err != nil {
		return repository.Unavailable(err, "failed to query stories")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawID                     int64
			name, description, status string
		)
		if err := rows.Scan(&rawID, &name, &description, &status); err != nil {
			return repository.Corrupt(err, "failed to scan story")
		}
		id, err := toID(rawID)
		if err != nil {
			return repository.Corrupt(err, "invalid story id")
		}
		state.Stories[id] = &domain.Story{
			Name:        name,
			Description: description,
			Status:      domain.Status(status),
		}
	}

	if err := rows.Err(); err != nil {
		return repository.Unavailable(err, "error iterating stories")
	}
	return nil
}

func (r *Repository) loadEpicStories(ctx context.Context, tx *sql.Tx, state *domain.State) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT epic_id, story_id FROM epic_stories ORDER BY epic_id, position
	`)
	if err != nil {
		return repository.Unavailable(err, "failed to query epic stories")
	}
	defer rows.Close()

	for rows.Next() {
		var rawEpicID, rawStoryID int64
		if err := rows.Scan(&rawEpicID, &rawStoryID); err != nil {
			return repository.Corrupt(err, "failed to scan epic story")
		}
		epicID, err := toID(rawEpicID)
		if err != nil {
			return repository.Corrupt(err, "invalid epic id in epic_stories")
		}
		storyID, err := toID(rawStoryID)
		if err != nil {
			return repository.Corrupt(err, "invalid story id in epic_stories")
		}

		epic := state.Epics[epicID]
		if epic == nil {
			return repository.Corrupt(fmt.Errorf("epic %d does not exist", epicID), "orphaned story link %d", storyID)
		}
		epic.Stories = append(epic.Stories, storyID)
	}

	if err := rows.Err(); err != nil {
		return repository.Unavailable(err, "error iterating epic stories")
	}
	return nil
}

// Save replaces all stored data with state in one transaction
func (r *Repository) Save(ctx context.Context, state *domain.State) error {
	if state == nil {
		return repository.Corrupt(fmt.Errorf("nil state"), "refusing to save")
	}
	if err := state.Validate(); err != nil {
		return repository.Corrupt(err, "refusing to save")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, table := range []string{"epic_stories", "stories", "epics"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return repository.Unavailable(err, "failed to clear %s", table)
		}
	}

	epicStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO epics (id, name, description, status) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return repository.Unavailable(err, "failed to prepare epic statement")
	}
	defer epicStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO epic_stories (epic_id, story_id, position) VALUES (?, ?, ?)
	`)
	if err != nil {
		return repository.Unavailable(err, "failed to prepare epic story statement")
	}
	defer linkStmt.Close()

	for _, id := range state.EpicIDs() {
		epic := state.Epics[id]
		if _, err := epicStmt.ExecContext(ctx, id, epic.Name, epic.Description, string(epic.Status)); err != nil {
			return repository.Unavailable(err, "failed to insert epic %d", id)
		}
		for position, storyID := range epic.Stories {
			if _, err := linkStmt.ExecContext(ctx, id, storyID, position); err != nil {
				return repository.Unavailable(err, "failed to link story %d to epic %d", storyID, id)
			}
		}
	}

	storyStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stories (id, name, description, status) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return repository.Unavailable(err, "failed to prepare story statement")
	}
	defer storyStmt.Close()

	for _, id := range state.StoryIDs() {
		story := state.Stories[id]
		if _, err := storyStmt.ExecContext(ctx, id, story.Name, story.Description, string(story.Status)); err != nil {
			return repository.Unavailable(err, "failed to insert story %d", id)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastItemIDKey, int64(state.LastItemID)); err != nil {
		return repository.Unavailable(err, "failed to store last_item_id")
	}

	if err := tx.Commit(); err != nil {
		return repository.Unavailable(err, "failed to commit transaction")
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func toID(v int64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("id %d out of range", v)
	}
	return uint32(v), nil
}
