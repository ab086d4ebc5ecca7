// Package store holds generated lesson records. The orchestrator core only
// depends on the Store interface so record keeping and generation can be
// developed and tested independently; the in-memory implementation is
// volatile and makes no persistence guarantees.
package store

import "github.com/lessonforge/lessonforge/core"

// Store is the keyed collection of lesson records.
type Store interface {
	// List returns all lessons in creation order.
	List() ([]*core.Lesson, error)

	// Get returns the lesson with the given id or ErrNotFound.
	Get(id string) (*core.Lesson, error)

	// Create stores a new lesson, assigning its ID and timestamps, and
	// returns the stored record.
	Create(lesson *core.Lesson) (*core.Lesson, error)

	// Update replaces the mutable fields of an existing lesson or
	// returns ErrNotFound.
	Update(lesson *core.Lesson) (*core.Lesson, error)

	// Delete removes a lesson or returns ErrNotFound.
	Delete(id string) error
}
