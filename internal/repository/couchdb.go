package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-kivik/kivik/v4"

	"notevault/internal/domain"
)

// CouchStore implements both repositories on top of a CouchDB database.
// Notes live under "note:<id>" doc ids, version records under
// "version:<id>".
type CouchStore struct {
	client *kivik.Client
	dbName string
}

func NewCouchStore(client *kivik.Client, dbName string) *CouchStore {
	return &CouchStore{
		client: client,
		dbName: dbName,
	}
}

func noteDocID(id string) string    { return fmt.Sprintf("note:%s", id) }
func versionDocID(id string) string { return fmt.Sprintf("version:%s", id) }

func (s *CouchStore) Create(note *domain.Note) error {
	db := s.client.DB(s.dbName)

	if _, err := db.Put(context.Background(), noteDocID(note.ID), note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (s *CouchStore) FindByID(id string) (*domain.Note, error) {
	db := s.client.DB(s.dbName)

	row := db.Get(context.Background(), noteDocID(id))

	var note domain.Note
	if err := row.ScanDoc(&note); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return &note, nil
}

func (s *CouchStore) List() ([]*domain.Note, error) {
	db := s.client.DB(s.dbName)

	// Only note docs carry updated_at; version records do not.
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"updated_at": map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (s *CouchStore) Update(note *domain.Note) error {
	db := s.client.DB(s.dbName)
	docID := noteDocID(note.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return domain.ErrNoteNotFound
		}
		return fmt.Errorf("failed to fetch existing note for update: %w", err)
	}

	existingDoc["title"] = note.Title
	existingDoc["content"] = note.Content
	existingDoc["updated_at"] = note.UpdatedAt
	existingDoc["version"] = note.Version

	if _, err := db.Put(context.Background(), docID, existingDoc); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (s *CouchStore) Delete(id string) error {
	db := s.client.DB(s.dbName)
	docID := noteDocID(id)

	rev, err := db.GetRev(context.Background(), docID)
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return domain.ErrNoteNotFound
		}
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	if err := s.DeleteVersionsByNote(id); err != nil {
		return err
	}

	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *CouchStore) SaveVersion(version *domain.NoteVersion) error {
	db := s.client.DB(s.dbName)

	if _, err := db.Put(context.Background(), versionDocID(version.ID), version); err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}
	return nil
}

func (s *CouchStore) GetVersion(id string) (*domain.NoteVersion, error) {
	db := s.client.DB(s.dbName)

	row := db.Get(context.Background(), versionDocID(id))

	var version domain.NoteVersion
	if err := row.ScanDoc(&version); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to find version: %w", err)
	}
	return &version, nil
}

func (s *CouchStore) GetVersions(noteID string) ([]*domain.NoteVersion, error) {
	db := s.client.DB(s.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"note_id": noteID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.NoteVersion
	for rows.Next() {
		var version domain.NoteVersion
		if err := rows.ScanDoc(&version); err != nil {
			continue
		}
		versions = append(versions, &version)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

func (s *CouchStore) DeleteVersionsByNote(noteID string) error {
	db := s.client.DB(s.dbName)

	versions, err := s.GetVersions(noteID)
	if err != nil {
		return err
	}

	for _, v := range versions {
		docID := versionDocID(v.ID)
		rev, err := db.GetRev(context.Background(), docID)
		if err != nil {
			continue
		}
		db.Delete(context.Background(), docID, rev)
	}
	return nil
}
