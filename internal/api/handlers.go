package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirukan/novelkeep/internal/providers"
	"github.com/mirukan/novelkeep/internal/util"
)

const maxLabelLength = 20

// novelSummary is the list representation of a tracked novel.
type novelSummary struct {
	URL          string `json:"url"`
	Provider     string `json:"provider"`
	ProviderName string `json:"providerName"`
	ID           string `json:"id"`
	Label        string `json:"label"`
	Versions     int    `json:"versions"`
	VersionIndex int    `json:"versionIndex"`
	Chapters     int    `json:"chapters"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
	SyncedAt     int64  `json:"syncedAt"`
	CompletedAt  int64  `json:"completedAt,omitempty"`
	RemovedAt    int64  `json:"removedAt,omitempty"`
	FailedAt     int64  `json:"failedAt,omitempty"`
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status := s.orch.Status()
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"outputDir": s.orch.OutputDir(),
	})
}

func (s *Server) handleGetProviders(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, providers.All())
}

func (s *Server) handleListNovels(w http.ResponseWriter, r *http.Request) {
	novels := s.orch.Snapshot()
	summaries := make([]novelSummary, 0, len(novels))
	for _, n := range novels {
		label := n.ID
		if v := n.CurrentVersion(); v != nil {
			label = util.TruncateLabel(v.Title, maxLabelLength)
		}
		summaries = append(summaries, novelSummary{
			URL:          n.URL,
			Provider:     n.Provider,
			ProviderName: providers.ProviderName(n.Provider),
			ID:           n.ID,
			Label:        label,
			Versions:     len(n.Versions),
			VersionIndex: n.VersionIndex,
			Chapters:     len(n.Chapters),
			CreatedAt:    n.CreatedAt,
			UpdatedAt:    n.UpdatedAt,
			SyncedAt:     n.SyncedAt,
			CompletedAt:  n.CompletedAt,
			RemovedAt:    n.RemovedAt,
			FailedAt:     n.FailedAt,
		})
	}
	RespondWithJSON(w, http.StatusOK, summaries)
}

// handleAddNovels accepts arbitrary text, recognizes novel URLs in it, and
// tracks the new ones. This is the same intake path the clipboard watcher
// uses.
func (s *Server) handleAddNovels(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sources := providers.Recognize(payload.Text)
	added := s.orch.AddSources(sources)
	if added > 0 {
		go s.orch.RunAll(false)
	}
	RespondWithJSON(w, http.StatusAccepted, map[string]int{
		"recognized": len(sources),
		"added":      added,
	})
}

func (s *Server) handleRemoveNovel(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	id := chi.URLParam(r, "id")
	if err := s.orch.RemoveNovel(provider, id); err != nil {
		RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleSelectVersion(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	provider := chi.URLParam(r, "provider")
	id := chi.URLParam(r, "id")
	if err := s.orch.SelectVersion(provider, id, payload.Index); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	go s.orch.RunSyncAll()
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "version selected"})
}

func (s *Server) handleForceRefresh(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	id := chi.URLParam(r, "id")
	go func() {
		if err := s.orch.ForceRefresh(provider, id); err != nil {
			log.Printf("Force refresh failed for %s/%s: %v", provider, id, err)
		}
	}()
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

func (s *Server) handleSetOutputDir(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.orch.SetOutputDir(payload.Path); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	go s.orch.RunSyncAll()
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "output directory changed"})
}

func (s *Server) handleTriggerUpdate(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	go s.orch.RunAll(force)
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "update started"})
}

func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	go s.orch.RunSyncAll()
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "sync started"})
}
