package service

import (
	"errors"
	"testing"

	"notevault/internal/domain"
	"notevault/internal/repository"
)

func strPtr(s string) *string { return &s }

func newTestService() (*NoteService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewNoteService(store, store, nil), store
}

func createNote(t *testing.T, s *NoteService, title, content string) *domain.Note {
	t.Helper()
	note, err := s.Create(&domain.CreateNoteRequest{Title: strPtr(title), Content: strPtr(content)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return note
}

func TestNoteService_Create(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "Test Note", "This is a test note content")

	if note.ID == "" {
		t.Error("expected note ID to be generated")
	}
	if note.Version != 1 {
		t.Errorf("expected version 1, got %d", note.Version)
	}
	if !note.CreatedAt.Equal(note.UpdatedAt) {
		t.Error("expected created_at and updated_at to match on create")
	}

	versions, err := s.ListVersions(note.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 version record, got %d", len(versions))
	}
	if versions[0].Version != 1 || versions[0].Title != "Test Note" || versions[0].Content != "This is a test note content" {
		t.Errorf("unexpected first version record: %+v", versions[0])
	}
	if versions[0].NoteID != note.ID {
		t.Errorf("expected version to reference note %s, got %s", note.ID, versions[0].NoteID)
	}
	if versions[0].ID == note.ID {
		t.Error("expected version id to differ from note id")
	}
}

func TestNoteService_Get(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "n1", "c1")

	got, err := s.Get(note.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Title != "n1" || got.Content != "c1" {
		t.Errorf("unexpected note: %+v", got)
	}

	if _, err := s.Get("missing"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteService_List(t *testing.T) {
	s, _ := newTestService()

	createNote(t, s, "n1", "c1")
	createNote(t, s, "n2", "c2")

	notes, err := s.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
}

func TestNoteService_UpdateIncrementsVersion(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "n1", "c1")

	updated, err := s.Update(note.ID, &domain.UpdateNoteRequest{Title: strPtr("n1b"), Content: strPtr("c1b")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("expected version 2, got %d", updated.Version)
	}
	if updated.Title != "n1b" || updated.Content != "c1b" {
		t.Errorf("unexpected note after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Error("expected updated_at to be stamped")
	}

	versions, err := s.ListVersions(note.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 version records, got %d", len(versions))
	}
	if versions[0].Version != 2 || versions[1].Version != 1 {
		t.Errorf("expected versions ordered [2,1], got [%d,%d]", versions[0].Version, versions[1].Version)
	}
	if versions[0].Title != "n1b" {
		t.Errorf("expected snapshot to carry post-merge title, got %q", versions[0].Title)
	}
}

func TestNoteService_UpdateFieldPolicy(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "keep-title", "keep-content")

	// Absent field keeps the current value.
	updated, err := s.Update(note.ID, &domain.UpdateNoteRequest{Content: strPtr("new-content")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "keep-title" {
		t.Errorf("expected absent title to keep current value, got %q", updated.Title)
	}
	if updated.Content != "new-content" {
		t.Errorf("expected content to be replaced, got %q", updated.Content)
	}

	// A provided empty string keeps the current value too.
	updated, err = s.Update(note.ID, &domain.UpdateNoteRequest{Title: strPtr(""), Content: strPtr("")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "keep-title" || updated.Content != "new-content" {
		t.Errorf("expected empty fields to keep current values, got %+v", updated)
	}
	if updated.Version != 3 {
		t.Errorf("expected a no-op merge to still bump the version, got %d", updated.Version)
	}

	// The snapshot records the post-merge state, not the raw request.
	versions, _ := s.ListVersions(note.ID)
	if versions[0].Title != "keep-title" || versions[0].Content != "new-content" {
		t.Errorf("unexpected snapshot at v3: %+v", versions[0])
	}
}

func TestNoteService_UpdateNotFound(t *testing.T) {
	s, _ := newTestService()

	if _, err := s.Update("missing", &domain.UpdateNoteRequest{Title: strPtr("x")}); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteService_RestoreCreatesNewVersion(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "v1-title", "v1-content")
	if _, err := s.Update(note.ID, &domain.UpdateNoteRequest{Title: strPtr("v2-title"), Content: strPtr("v2-content")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	versions, _ := s.ListVersions(note.ID)
	first := versions[len(versions)-1] // version 1

	restored, err := s.Restore(note.ID, first.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if restored.Version != 3 {
		t.Errorf("expected restore to produce version 3, got %d", restored.Version)
	}
	if restored.Title != "v1-title" || restored.Content != "v1-content" {
		t.Errorf("expected restored content to match version 1, got %+v", restored)
	}

	versions, _ = s.ListVersions(note.ID)
	if len(versions) != 3 {
		t.Fatalf("expected 3 version records after restore, got %d", len(versions))
	}
	for i, want := range []int64{3, 2, 1} {
		if versions[i].Version != want {
			t.Errorf("expected versions[%d].Version == %d, got %d", i, want, versions[i].Version)
		}
	}
}

func TestNoteService_RestoreAppliesSnapshotVerbatim(t *testing.T) {
	s, _ := newTestService()

	// Version 1 has an empty content field; restoring it must apply the
	// empty value, unlike update's merge policy.
	note := createNote(t, s, "t1", "")
	if _, err := s.Update(note.ID, &domain.UpdateNoteRequest{Content: strPtr("filled")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	versions, _ := s.ListVersions(note.ID)
	first := versions[len(versions)-1]

	restored, err := s.Restore(note.ID, first.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if restored.Content != "" {
		t.Errorf("expected restore to apply empty content verbatim, got %q", restored.Content)
	}
}

func TestNoteService_RestoreVersionMismatch(t *testing.T) {
	s, _ := newTestService()

	noteA := createNote(t, s, "a", "a-content")
	noteB := createNote(t, s, "b", "b-content")

	versionsB, _ := s.ListVersions(noteB.ID)

	_, err := s.Restore(noteA.ID, versionsB[0].ID)
	if !errors.Is(err, domain.ErrVersionMismatch) {
		t.Errorf("expected ErrVersionMismatch, got %v", err)
	}

	// The failed restore must not have mutated anything.
	got, _ := s.Get(noteA.ID)
	if got.Version != 1 {
		t.Errorf("expected note A untouched at version 1, got %d", got.Version)
	}
}

func TestNoteService_RestoreNotFound(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "a", "a-content")

	if _, err := s.Restore("missing", "whatever"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
	if _, err := s.Restore(note.ID, "missing"); !errors.Is(err, domain.ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestNoteService_DeleteCascades(t *testing.T) {
	s, store := newTestService()

	note := createNote(t, s, "doomed", "content")
	if _, err := s.Update(note.ID, &domain.UpdateNoteRequest{Content: strPtr("more")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := s.Delete(note.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := s.Get(note.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound after delete, got %v", err)
	}
	if _, err := s.ListVersions(note.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound listing versions after delete, got %v", err)
	}

	// No record with that note_id remains retrievable from the store.
	versions, err := store.GetVersions(note.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("expected 0 version records after cascade, got %d", len(versions))
	}
}

func TestNoteService_DeleteNotFound(t *testing.T) {
	s, _ := newTestService()

	if err := s.Delete("missing"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteService_VersionEqualsRecordCount(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "n", "c")
	for i := 0; i < 4; i++ {
		if _, err := s.Update(note.ID, &domain.UpdateNoteRequest{Content: strPtr("c+")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	versions, _ := s.ListVersions(note.ID)
	first := versions[len(versions)-1]
	if _, err := s.Restore(note.ID, first.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, _ := s.Get(note.ID)
	versions, _ = s.ListVersions(note.ID)
	if got.Version != int64(len(versions)) {
		t.Errorf("expected version %d to equal record count %d", got.Version, len(versions))
	}
	if got.Version != 6 {
		t.Errorf("expected version 6 after create, 4 updates and a restore, got %d", got.Version)
	}
}

func TestNoteService_ReadsAreIdempotent(t *testing.T) {
	s, _ := newTestService()

	note := createNote(t, s, "n", "c")

	for i := 0; i < 3; i++ {
		got, err := s.Get(note.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Version != 1 {
			t.Errorf("expected repeated reads to leave version at 1, got %d", got.Version)
		}
		versions, err := s.ListVersions(note.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(versions) != 1 {
			t.Errorf("expected repeated reads to leave 1 record, got %d", len(versions))
		}
	}
}
