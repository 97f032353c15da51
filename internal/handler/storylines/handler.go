package storylines

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	gamesmodel "github.com/sportsbuddy/backend/internal/model/games"
	"github.com/sportsbuddy/backend/internal/service/ai"
	"github.com/sportsbuddy/backend/internal/service/storyline"
	"github.com/sportsbuddy/backend/pkg/utils"
)

// Handler serves per-fixture storyline generation.
type Handler struct {
	storylineSvc *storyline.Service
}

// New creates the storylines handler.
func New(storylineSvc *storyline.Service) *Handler {
	return &Handler{storylineSvc: storylineSvc}
}

// RegisterRoutes registers the storylines endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/storylines", h.handleStorylines)
}

func (h *Handler) handleStorylines(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Items []gamesmodel.FixtureSummary `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload.Items = nil
	}
	if len(payload.Items) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "body must include items: { teamName, opponent }[]")
		return
	}

	storylines, raw, err := h.storylineSvc.Generate(r.Context(), payload.Items)
	if err != nil {
		var upstreamErr *ai.UpstreamError
		if errors.As(err, &upstreamErr) {
			utils.RespondJSON(w, http.StatusBadGateway, map[string]any{
				"error":  "Upstream error",
				"status": upstreamErr.Status,
				"detail": upstreamErr.Body,
			})
			return
		}
		log.Error().Err(err).Msg("storyline generation failed")
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if storylines == nil {
		// Model output was not the requested JSON; hand the raw text over
		// for debugging instead of failing the dashboard.
		utils.RespondJSON(w, http.StatusOK, map[string]any{"storylines": nil, "raw": raw})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"storylines": storylines})
}
