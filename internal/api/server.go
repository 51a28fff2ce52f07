package api

import (
	"net/http"
	"time"

	"github.com/futig/code-companion/internal/api/docs"
	"github.com/futig/code-companion/internal/api/middleware"
	sessionapi "github.com/futig/code-companion/internal/api/session"
	systemapi "github.com/futig/code-companion/internal/api/system"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout bounds a request; a completion call may take up to the LLM client timeout
const requestTimeout = 3 * time.Minute

// SetupRouter creates and configures the HTTP router
func SetupRouter(systemHandler *systemapi.Handler, sessionHandler *sessionapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.CORS)                       // Handle CORS
	r.Use(chimiddleware.Timeout(requestTimeout)) // Default timeout

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	systemapi.RegisterRoutes(r, systemHandler)
	sessionapi.RegisterRoutes(r, sessionHandler)

	return r
}
