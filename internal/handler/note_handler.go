package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"notevault/internal/domain"
	"notevault/internal/service"
	"notevault/pkg/response"
)

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	note, err := h.service.Create(&req)
	if err != nil {
		response.InternalError(w, "Failed to create note")
		return
	}

	response.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List()
	if err != nil {
		response.InternalError(w, "Failed to list notes")
		return
	}
	if notes == nil {
		notes = []*domain.Note{}
	}

	response.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["note_id"]

	note, err := h.service.Get(noteID)
	if err != nil {
		h.writeError(w, err, "Failed to get note")
		return
	}

	response.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["note_id"]

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	note, err := h.service.Update(noteID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update note")
		return
	}

	response.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["note_id"]

	if err := h.service.Delete(noteID); err != nil {
		h.writeError(w, err, "Failed to delete note")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}

func (h *NoteHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["note_id"]

	versions, err := h.service.ListVersions(noteID)
	if err != nil {
		h.writeError(w, err, "Failed to list versions")
		return
	}
	if versions == nil {
		versions = []*domain.NoteVersion{}
	}

	response.JSON(w, http.StatusOK, versions)
}

func (h *NoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	noteID := vars["note_id"]
	versionID := vars["version_id"]

	note, err := h.service.Restore(noteID, versionID)
	if err != nil {
		h.writeError(w, err, "Failed to restore version")
		return
	}

	response.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		response.NotFound(w, "Note not found")
	case errors.Is(err, domain.ErrVersionNotFound):
		response.NotFound(w, "Version not found")
	case errors.Is(err, domain.ErrVersionMismatch):
		response.BadRequest(w, "Version does not belong to this note")
	default:
		response.InternalError(w, fallback)
	}
}
