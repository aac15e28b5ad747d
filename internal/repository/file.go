package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"notevault/internal/domain"
)

// fileDocument is the persisted layout: one JSON document holding both
// keyed collections. It is loaded in full before each operation and written
// back in full after each mutation.
type fileDocument struct {
	Notes    map[string]*domain.Note        `json:"notes"`
	Versions map[string]*domain.NoteVersion `json:"versions"`
}

// FileStore persists notes and version records as a single JSON document on
// disk. Each operation does a full load, and mutations do a full rewrite
// through a temp-file rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileDocument{
			Notes:    make(map[string]*domain.Note),
			Versions: make(map[string]*domain.NoteVersion),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	if doc.Notes == nil {
		doc.Notes = make(map[string]*domain.Note)
	}
	if doc.Versions == nil {
		doc.Versions = make(map[string]*domain.NoteVersion)
	}
	return &doc, nil
}

func (s *FileStore) save(doc *fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

func (s *FileStore) Create(note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	n := *note
	doc.Notes[note.ID] = &n
	return s.save(doc)
}

func (s *FileStore) FindByID(id string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	note, ok := doc.Notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return note, nil
}

func (s *FileStore) List() ([]*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(doc.Notes))
	for _, note := range doc.Notes {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (s *FileStore) Update(note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Notes[note.ID]; !ok {
		return domain.ErrNoteNotFound
	}
	n := *note
	doc.Notes[note.ID] = &n
	return s.save(doc)
}

func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Notes[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(doc.Notes, id)
	for vid, v := range doc.Versions {
		if v.NoteID == id {
			delete(doc.Versions, vid)
		}
	}
	return s.save(doc)
}

func (s *FileStore) SaveVersion(version *domain.NoteVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	v := *version
	doc.Versions[version.ID] = &v
	return s.save(doc)
}

func (s *FileStore) GetVersion(id string) (*domain.NoteVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	version, ok := doc.Versions[id]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	return version, nil
}

func (s *FileStore) GetVersions(noteID string) ([]*domain.NoteVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	var versions []*domain.NoteVersion
	for _, version := range doc.Versions {
		if version.NoteID == noteID {
			versions = append(versions, version)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

func (s *FileStore) DeleteVersionsByNote(noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for id, v := range doc.Versions {
		if v.NoteID == noteID {
			delete(doc.Versions, id)
		}
	}
	return s.save(doc)
}
