package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/LEULEX-404/Health-Tracker/internal/appointments"
	"github.com/LEULEX-404/Health-Tracker/internal/meals"
	"github.com/LEULEX-404/Health-Tracker/internal/notification"
	"github.com/LEULEX-404/Health-Tracker/internal/reports"
	"github.com/LEULEX-404/Health-Tracker/internal/telemetry"
	"github.com/LEULEX-404/Health-Tracker/internal/users"
	"github.com/LEULEX-404/Health-Tracker/pkg/auth"
	"github.com/LEULEX-404/Health-Tracker/pkg/config"
	"github.com/LEULEX-404/Health-Tracker/pkg/database"
	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/monitoring"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.WithField("version", serviceVersion).Info("Starting Health Tracker server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.NewConnection(&cfg.Database, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to create database schema")
	}

	// Monitoring
	metrics := monitoring.NewMetricsCollector("health-tracker", appLogger)
	healthManager := monitoring.NewHealthManager("health-tracker", serviceVersion)
	healthManager.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))

	// Repositories
	telemetryRepo := telemetry.NewRepository(db, appLogger)
	mealRepo := meals.NewRepository(db, appLogger)
	appointmentRepo := appointments.NewRepository(db, appLogger)
	userRepo := users.NewRepository(db, appLogger)

	// Services
	telemetryService := telemetry.NewService(telemetryRepo, telemetry.NewPlainTextExtractor(), appLogger, metrics)
	mealService := meals.NewService(mealRepo, appLogger)
	appointmentService := appointments.NewService(appointmentRepo, appLogger)
	reportService := reports.NewService(telemetryRepo, appLogger)

	// Notification sender
	var sender interfaces.NotificationSender
	if cfg.Email.Enabled {
		sesSender, err := notification.NewSESSender(ctx, &cfg.Email, appLogger)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize SES sender")
		}
		sender = sesSender
	} else {
		sender = notification.NewLogSender(appLogger)
	}

	// Auth
	tokenManager := auth.NewTokenManager(&cfg.JWT)

	// Router
	router := mux.NewRouter()
	router.HandleFunc(cfg.Monitoring.HealthPath, healthManager.HTTPHandler()).Methods("GET")
	if cfg.Monitoring.Enabled {
		router.Handle(cfg.Monitoring.MetricsPath, metrics.Handler()).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(metrics.HTTPMiddleware)
	api.Use(tokenManager.Middleware)

	telemetry.NewHandlers(telemetryService, appLogger).RegisterRoutes(api)
	meals.NewHandlers(mealService, appLogger).RegisterRoutes(api)
	appointments.NewHandlers(appointmentService, appLogger).RegisterRoutes(api)
	reports.NewHandlers(reportService, appLogger).RegisterRoutes(api)
	users.NewHandlers(userRepo, appLogger).RegisterRoutes(api)

	// Background loops
	if cfg.Simulator.Enabled {
		simulator := telemetry.NewSimulator(telemetryService, userRepo, appLogger, metrics,
			time.Duration(cfg.Simulator.IntervalMS)*time.Millisecond)
		go simulator.Run(ctx)
	}

	if cfg.Reminders.Enabled {
		dispatcher := meals.NewDispatcher(mealService, mealRepo, userRepo, sender, appLogger, metrics,
			time.Duration(cfg.Reminders.IntervalMS)*time.Millisecond, cfg.Reminders.BatchSize)
		go dispatcher.Run(ctx)
	}

	// HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		appLogger.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Error during HTTP server shutdown")
	}

	appLogger.Info("Health Tracker server stopped")
}
