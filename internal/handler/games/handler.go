package games

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/sportsbuddy/backend/internal/service/schedule"
	"github.com/sportsbuddy/backend/pkg/utils"
)

// Handler serves the upcoming-games dashboard data.
type Handler struct {
	scheduleSvc *schedule.Service
}

// New creates the games handler.
func New(scheduleSvc *schedule.Service) *Handler {
	return &Handler{scheduleSvc: scheduleSvc}
}

// RegisterRoutes registers the games endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/games", h.handleUpcomingGames)
}

// handleUpcomingGames returns the cached fixture list; ?force=1 bypasses
// the cache.
func (h *Handler) handleUpcomingGames(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "1"

	items, source, err := h.scheduleSvc.UpcomingGames(r.Context(), force)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve upcoming games")
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"items":  items,
	})
}
