package handler

import (
	"net/http"

	"notevault/web"
)

// UIHandler serves the embedded single-page notes interface.
type UIHandler struct{}

func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(web.IndexHTML)
}
