package system

import (
	"net/http"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/response"
	"github.com/go-chi/chi/v5"
)

// Handler exposes service health and the effective completion settings
type Handler struct {
	cfg *config.Config
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "healthy"})
}

// Config handles GET /config. The API key is never returned.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	warnings := h.cfg.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	response.Success(w, entity.ConfigDTO{
		Endpoint:   h.cfg.AzureOpenAICfg.Endpoint,
		Deployment: h.cfg.AzureOpenAICfg.Deployment,
		APIVersion: h.cfg.AzureOpenAICfg.APIVersion,
		Language:   h.cfg.LanguageCfg.Name,
		Extension:  h.cfg.LanguageCfg.Extension,
		Mocks:      h.cfg.EnableMocks,
		Warnings:   warnings,
	})
}

// RegisterRoutes registers health and config routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Get("/config", h.Config)
}
