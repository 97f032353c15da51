package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/sportsbuddy/backend/internal/handler/chat"
	gamesHandler "github.com/sportsbuddy/backend/internal/handler/games"
	storylinesHandler "github.com/sportsbuddy/backend/internal/handler/storylines"
	middlewarePkg "github.com/sportsbuddy/backend/internal/middleware"
	aiService "github.com/sportsbuddy/backend/internal/service/ai"
	chatService "github.com/sportsbuddy/backend/internal/service/chat"
	scheduleService "github.com/sportsbuddy/backend/internal/service/schedule"
	storylineService "github.com/sportsbuddy/backend/internal/service/storyline"
	"github.com/sportsbuddy/backend/internal/web"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, aiSvc *aiService.Service, scheduleSvc *scheduleService.Service, storylineSvc *storylineService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(chatSvc, aiSvc).RegisterRoutes(api)
		gamesHandler.New(scheduleSvc).RegisterRoutes(api)
		storylinesHandler.New(storylineSvc).RegisterRoutes(api)
	})

	// Embedded single-page frontend.
	r.Handle("/*", web.Handler())

	return r
}
