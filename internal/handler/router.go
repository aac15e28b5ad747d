package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the HTTP surface: the JSON API under /api/notes/, the
// websocket event stream, the health probe and the browser UI shell.
func NewRouter(notes *NoteHandler, ws *WebSocketHandler, ui *UIHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/notes/", notes.Create).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/notes/", notes.List).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/notes/{note_id}", notes.Get).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/notes/{note_id}", notes.Update).Methods("PUT", "OPTIONS")
	r.HandleFunc("/api/notes/{note_id}", notes.Delete).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/api/notes/{note_id}/versions", notes.ListVersions).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/notes/{note_id}/restore/{version_id}", notes.Restore).Methods("POST", "OPTIONS")

	if ws != nil {
		r.HandleFunc("/ws", ws.HandleConnection)
	}

	r.HandleFunc("/health", healthHandler).Methods("GET")
	if ui != nil {
		r.HandleFunc("/", ui.Index).Methods("GET")
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"notevault"}`))
}
