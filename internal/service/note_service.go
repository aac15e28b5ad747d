package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"notevault/internal/domain"
	"notevault/internal/repository"
	"notevault/internal/websocket"
)

// NoteService implements the versioning model: every content mutation
// (create, update, restore) bumps the note's version by one and records an
// immutable snapshot, so the note's version always equals the number of
// snapshots that exist for it.
type NoteService struct {
	repo        repository.NoteRepository
	versionRepo repository.NoteVersionRepository
	hub         *websocket.Hub

	// mu serializes mutating operations. The storage backends do whole
	// document read-modify-write, so unserialized writers lose updates.
	mu sync.Mutex
}

func NewNoteService(
	repo repository.NoteRepository,
	versionRepo repository.NoteVersionRepository,
	hub *websocket.Hub,
) *NoteService {
	return &NoteService{
		repo:        repo,
		versionRepo: versionRepo,
		hub:         hub,
	}
}

// nextVersion is the single numbering rule shared by create, update and
// restore. Numbering is per note; restore never reuses an old number.
func nextVersion(current *domain.Note) int64 {
	if current == nil {
		return 1
	}
	return current.Version + 1
}

func snapshot(note *domain.Note) *domain.NoteVersion {
	return &domain.NoteVersion{
		ID:        uuid.New().String(),
		NoteID:    note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Version:   note.Version,
		CreatedAt: time.Now(),
	}
}

func (s *NoteService) Create(req *domain.CreateNoteRequest) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	note := &domain.Note{
		ID:        uuid.New().String(),
		Title:     *req.Title,
		Content:   *req.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   nextVersion(nil),
	}

	if err := s.repo.Create(note); err != nil {
		return nil, err
	}
	if err := s.versionRepo.SaveVersion(snapshot(note)); err != nil {
		s.repo.Delete(note.ID)
		return nil, err
	}

	s.broadcast(websocket.TypeNoteCreated, note)
	return note, nil
}

func (s *NoteService) List() ([]*domain.Note, error) {
	return s.repo.List()
}

func (s *NoteService) Get(id string) (*domain.Note, error) {
	return s.repo.FindByID(id)
}

// Update applies the tri-state field policy: a nil field keeps the current
// value, a provided empty string keeps it too, and only a non-empty value
// replaces it. The snapshot written records the post-merge state.
func (s *NoteService) Update(id string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	prior := *note

	if req.Title != nil && *req.Title != "" {
		note.Title = *req.Title
	}
	if req.Content != nil && *req.Content != "" {
		note.Content = *req.Content
	}
	note.UpdatedAt = time.Now()
	note.Version = nextVersion(&prior)

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}
	if err := s.versionRepo.SaveVersion(snapshot(note)); err != nil {
		s.repo.Update(&prior)
		return nil, err
	}

	s.broadcast(websocket.TypeNoteUpdated, note)
	return note, nil
}

func (s *NoteService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	// Delete cascades to the note's version records in the backend.
	if err := s.repo.Delete(note.ID); err != nil {
		return err
	}

	s.broadcast(websocket.TypeNoteDeleted, note)
	return nil
}

func (s *NoteService) ListVersions(noteID string) ([]*domain.NoteVersion, error) {
	if _, err := s.repo.FindByID(noteID); err != nil {
		return nil, err
	}
	return s.versionRepo.GetVersions(noteID)
}

// Restore copies a historical snapshot's title and content into the note as
// a new version. The snapshot applies verbatim, empty fields included, and
// the version counter only ever moves forward.
func (s *NoteService) Restore(noteID, versionID string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.repo.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	version, err := s.versionRepo.GetVersion(versionID)
	if err != nil {
		return nil, err
	}
	if version.NoteID != noteID {
		return nil, domain.ErrVersionMismatch
	}
	prior := *note

	note.Title = version.Title
	note.Content = version.Content
	note.UpdatedAt = time.Now()
	note.Version = nextVersion(&prior)

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}
	if err := s.versionRepo.SaveVersion(snapshot(note)); err != nil {
		s.repo.Update(&prior)
		return nil, err
	}

	s.broadcast(websocket.TypeNoteRestored, note)
	return note, nil
}

func (s *NoteService) broadcast(msgType websocket.MessageType, note *domain.Note) {
	if s.hub == nil {
		return
	}

	msg, err := websocket.NewMessage(msgType, &websocket.NoteEventPayload{
		NoteID:    note.ID,
		Title:     note.Title,
		Version:   note.Version,
		UpdatedAt: note.UpdatedAt,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(msg)
}
