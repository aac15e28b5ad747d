package repository

import "notevault/internal/domain"

// NoteRepository holds the current state of every live note.
type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id string) (*domain.Note, error)
	List() ([]*domain.Note, error)
	Update(note *domain.Note) error
	// Delete removes the note and cascades to all of its version records.
	Delete(id string) error
}

// NoteVersionRepository is an append-only collection of version records.
// Records are immutable once saved; DeleteByNote is the only removal path
// and exists solely for the note-delete cascade.
type NoteVersionRepository interface {
	SaveVersion(version *domain.NoteVersion) error
	GetVersion(id string) (*domain.NoteVersion, error)
	// GetVersions returns the note's records ordered by version descending.
	GetVersions(noteID string) ([]*domain.NoteVersion, error)
	DeleteVersionsByNote(noteID string) error
}
