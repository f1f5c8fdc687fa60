package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigemech/admission-api/config"
	"github.com/sigemech/admission-api/internal/handler"
	admissionHandler "github.com/sigemech/admission-api/internal/handler/admission"
	authHandler "github.com/sigemech/admission-api/internal/handler/auth"
	catalogHandler "github.com/sigemech/admission-api/internal/handler/catalog"
	healthHandler "github.com/sigemech/admission-api/internal/handler/health"
	patientHandler "github.com/sigemech/admission-api/internal/handler/patient"
	"github.com/sigemech/admission-api/internal/middleware"
	"github.com/sigemech/admission-api/internal/repository/postgres"
	"github.com/sigemech/admission-api/internal/router"
	admissionService "github.com/sigemech/admission-api/internal/service/admission"
	authService "github.com/sigemech/admission-api/internal/service/auth"
	catalogService "github.com/sigemech/admission-api/internal/service/catalog"
	patientService "github.com/sigemech/admission-api/internal/service/patient"
	"github.com/sigemech/admission-api/pkg/metrics"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "admission-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validators")
	}

	m := metrics.NewMetrics("admission_api")

	// repositories
	txManager := postgres.NewTxManager(db)
	patientRepo := postgres.NewPatientRepository(db)
	repRepo := postgres.NewRepresentativeRepository(db)
	admissionRepo := postgres.NewAdmissionRepository(db)
	birthRepo := postgres.NewBirthRecordRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// services
	catalogSvc := catalogService.NewService(catalogRepo)
	patientSvc := patientService.NewService(patientRepo, admissionRepo, logger)
	authSvc := authService.NewService(userRepo, cfg.JWT, logger)
	rules := admissionService.NewValidator(admissionService.RuleConfig{
		MaternalRecencyWindow: cfg.Admission.MaternalRecencyWindow,
		ClockSkewTolerance:    cfg.Admission.ClockSkewTolerance,
		FacilityID:            cfg.Admission.FacilityID,
	}, catalogSvc, patientRepo, admissionRepo)
	admissionSvc := admissionService.NewService(
		txManager, patientSvc, catalogSvc, rules,
		repRepo, admissionRepo, birthRepo, patientRepo, outboxRepo,
		m, logger,
	)

	// handlers
	authMw := middleware.NewAuthMiddleware(authSvc)
	r := router.New(
		logger, m, cfg.RateLimit, authMw,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		admissionHandler.NewHandler(admissionSvc, patientSvc, cfg.Admission),
		patientHandler.NewHandler(patientSvc, cfg.Admission),
		catalogHandler.NewHandler(catalogSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}
