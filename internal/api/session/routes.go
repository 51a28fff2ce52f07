package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Put("/{id}/file", h.UploadSource)
		r.Post("/{id}/reset", h.ResetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Post("/{id}/actions/{action}", h.RunAction)
		r.Get("/{id}/actions/{action}/export", h.ExportResult)
	})
}
