package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sportsbuddy/backend/internal/config"
	"github.com/sportsbuddy/backend/internal/handler"
	"github.com/sportsbuddy/backend/internal/model/team"
	"github.com/sportsbuddy/backend/internal/service/ai"
	"github.com/sportsbuddy/backend/internal/service/chat"
	"github.com/sportsbuddy/backend/internal/service/schedule"
	"github.com/sportsbuddy/backend/internal/service/storyline"
	"github.com/sportsbuddy/backend/internal/sportsdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, continuing with system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	teams := team.NewMemoryStore(team.Seed())

	aiSvc := ai.NewService(cfg.AI)
	if aiSvc.Enabled() {
		log.Info().Str("model", cfg.AI.DefaultModel).Msg("upstream AI configured")
	} else {
		log.Warn().Msg("PERPLEXITY_API_KEY not set, chat and storyline endpoints will fail")
	}

	chatSvc := chat.NewService(cfg.AI, teams)
	storylineSvc := storyline.NewService(aiSvc, cfg.AI.StorylineModel)

	sportsClient := sportsdb.NewClient(cfg.Sports.BaseURL, cfg.Sports.APIKey)
	scheduleSvc := schedule.NewService(teams, sportsClient, cfg.Sports.CacheTTL)

	router := handler.NewRouter(chatSvc, aiSvc, scheduleSvc, storylineSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("sports buddy backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
