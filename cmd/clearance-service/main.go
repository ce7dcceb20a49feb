package main

import (
	"fmt"
	"os"

	"github.com/ukprop/clearance/internal/auth"
	"github.com/ukprop/clearance/internal/config"
	"github.com/ukprop/clearance/internal/db"
	"github.com/ukprop/clearance/internal/excel"
	httphandler "github.com/ukprop/clearance/internal/http"
	"github.com/ukprop/clearance/internal/http/middleware"
	"github.com/ukprop/clearance/internal/logger"
	"github.com/ukprop/clearance/internal/pdf"
	"github.com/ukprop/clearance/internal/repository"
	"github.com/ukprop/clearance/internal/service"
	"github.com/ukprop/clearance/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	jobRepo := repository.NewJobRepository(database)
	quoteRepo := repository.NewQuoteRepository(database)

	jobService := service.NewJobService(jobRepo, excel.NewGenerator())
	quoteService := service.NewQuoteService(quoteRepo, jobRepo, pdf.NewGenerator(), cfg)

	sweeper := worker.NewExpirySweeper(quoteService, cfg.Quotes.SweepSchedule, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start expiry sweeper")
	}
	defer sweeper.Stop()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(jobService, quoteService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting clearance service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
