package repository

import (
	"sort"
	"sync"

	"notevault/internal/domain"
)

// MemoryStore keeps notes and version records in process memory. It backs
// tests and the ephemeral "memory" storage backend. All returned values are
// copies, so callers cannot mutate stored records in place.
type MemoryStore struct {
	mu       sync.RWMutex
	notes    map[string]*domain.Note
	order    []string
	versions map[string]*domain.NoteVersion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes:    make(map[string]*domain.Note),
		versions: make(map[string]*domain.NoteVersion),
	}
}

func (s *MemoryStore) Create(note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := *note
	s.notes[note.ID] = &n
	s.order = append(s.order, note.ID)
	return nil
}

func (s *MemoryStore) FindByID(id string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	n := *note
	return &n, nil
}

func (s *MemoryStore) List() ([]*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*domain.Note, 0, len(s.notes))
	for _, id := range s.order {
		if note, ok := s.notes[id]; ok {
			n := *note
			notes = append(notes, &n)
		}
	}
	return notes, nil
}

func (s *MemoryStore) Update(note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[note.ID]; !ok {
		return domain.ErrNoteNotFound
	}
	n := *note
	s.notes[note.ID] = &n
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(s.notes, id)
	for i, nid := range s.order {
		if nid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for vid, v := range s.versions {
		if v.NoteID == id {
			delete(s.versions, vid)
		}
	}
	return nil
}

func (s *MemoryStore) SaveVersion(version *domain.NoteVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := *version
	s.versions[version.ID] = &v
	return nil
}

func (s *MemoryStore) GetVersion(id string) (*domain.NoteVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	v := *version
	return &v, nil
}

func (s *MemoryStore) GetVersions(noteID string) ([]*domain.NoteVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var versions []*domain.NoteVersion
	for _, version := range s.versions {
		if version.NoteID == noteID {
			v := *version
			versions = append(versions, &v)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

func (s *MemoryStore) DeleteVersionsByNote(noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range s.versions {
		if v.NoteID == noteID {
			delete(s.versions, id)
		}
	}
	return nil
}
