// The local control API. It plays the role the tray menu plays in a desktop
// shell: listing tracked novels, adding new ones, pinning versions, moving
// the library, and triggering passes by hand.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mirukan/novelkeep/internal/orchestrator"
)

// Server holds the dependencies for the control API.
type Server struct {
	orch *orchestrator.Orchestrator
}

// NewServer creates a new Server instance.
func NewServer(orch *orchestrator.Orchestrator) *Server {
	return &Server{orch: orch}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleGetStatus)
		r.Get("/providers", s.handleGetProviders)

		r.Get("/novels", s.handleListNovels)
		r.Post("/novels", s.handleAddNovels)
		r.Delete("/novels/{provider}/{id}", s.handleRemoveNovel)
		r.Post("/novels/{provider}/{id}/version", s.handleSelectVersion)
		r.Post("/novels/{provider}/{id}/refresh", s.handleForceRefresh)

		r.Put("/output-dir", s.handleSetOutputDir)
		r.Post("/update", s.handleTriggerUpdate)
		r.Post("/sync", s.handleTriggerSync)
	})

	return r
}
