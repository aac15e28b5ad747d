package domain

import "time"

// NoteVersion is an immutable snapshot of a note's title and content at one
// version number. Records are only ever created, never updated; they are
// removed only when the owning note is deleted.
type NoteVersion struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}
