package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salon_crm_backend/internal/config"
	"salon_crm_backend/internal/database"
	"salon_crm_backend/internal/router"
	"salon_crm_backend/internal/validation"
	"salon_crm_backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	utils.InitLogger(cfg.Server.LogLevel, !cfg.Server.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	if cfg.Database.ApplySchema {
		if err := store.ApplySchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
	}

	tokens, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure token manager")
	}

	if err := validation.RegisterGin(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register request validators")
	}

	engine := router.NewEngine(cfg)
	router.Setup(engine, store, tokens, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":            cfg.Server.Port,
			"environment":     cfg.Server.Environment,
			"allowed_origins": cfg.CORS.AllowedOrigins,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Graceful shutdown failed")
	}
	utils.LogInfo("Server stopped")
}
