package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/okozlov/finflow/internal/api/handlers"
	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/auth"
	"github.com/okozlov/finflow/internal/entitlement"
	"github.com/okozlov/finflow/internal/events"
	"github.com/okozlov/finflow/internal/export"
	"github.com/okozlov/finflow/internal/infra/postgres"
	"github.com/okozlov/finflow/internal/jobs/inmemory"
	"github.com/okozlov/finflow/internal/logger"
	"github.com/okozlov/finflow/internal/prefs"
	"github.com/okozlov/finflow/internal/service"
)

func main() {
	var (
		port      = flag.String("port", "8080", "HTTP server port")
		dsn       = flag.String("db", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
		amqpURL   = flag.String("amqp", os.Getenv("AMQP_URL"), "RabbitMQ URL for event publishing (or set AMQP_URL); empty disables events")
		bucket    = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for CSV exports (or set GCS_BUCKET); empty disables exports")
		prefsPath = flag.String("prefs", envOr("PREFS_PATH", "finflow-prefs.db"), "path to the local preference database")
	)
	flag.Parse()

	log := logger.New()

	if *dsn == "" {
		log.Fatal().Msg("No database configured; set DATABASE_URL or -db")
	}

	ctx := context.Background()

	store, err := postgres.New(ctx, *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	cache, err := prefs.Open(*prefsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer cache.Close()

	var publisher events.Publisher = events.NoopPublisher{}
	if *amqpURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(*amqpURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		publisher = rabbit
	} else {
		log.Warn().Msg("No AMQP URL configured - event publishing disabled")
	}
	defer publisher.Close()

	entitlements := entitlement.NewManager(entitlement.NewLocalBiller(), cache, log)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if *bucket != "" {
		uploader, err := export.NewGCSUploader(ctx, *bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create export uploader")
		}
		defer uploader.Close()

		runner := export.NewRunner(store, uploader, publisher, log)
		go func() {
			log.Info().Msg("Starting export worker")
			if err := jobQueue.Start(workerCtx, runner.Handle); err != nil {
				log.Error().Err(err).Msg("Export worker stopped with error")
			}
		}()
	} else {
		log.Warn().Msg("No GCS bucket configured - CSV exports will be disabled")
	}

	svc := service.New(store, entitlements, publisher, jobQueue, jobStore, log)
	sessions := auth.New(store)

	authHandler := handlers.NewAuthHandler(sessions, log)
	txHandler := handlers.NewTransactionsHandler(svc, log)
	subsHandler := handlers.NewSubscriptionsHandler(svc, log)
	settingsHandler := handlers.NewSettingsHandler(svc, log)
	profileHandler := handlers.NewProfileHandler(svc, log)
	insightsHandler := handlers.NewInsightsHandler(svc, log)
	entHandler := handlers.NewEntitlementHandler(entitlements, log)
	exportsHandler := handlers.NewExportsHandler(svc, log)
	categoriesHandler := handlers.NewCategoriesHandler()

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         3600,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Post("/api/auth/signup", authHandler.SignUp)
	r.Post("/api/auth/signin", authHandler.SignIn)
	r.Post("/api/auth/signout", authHandler.SignOut)
	r.Get("/api/categories", categoriesHandler.List)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessions))

		r.Get("/api/transactions", txHandler.List)
		r.Post("/api/transactions", txHandler.Create)
		r.Delete("/api/transactions/{id}", txHandler.Delete)

		r.Get("/api/subscriptions", subsHandler.List)
		r.Post("/api/subscriptions", subsHandler.Create)
		r.Delete("/api/subscriptions/{id}", subsHandler.Delete)
		r.Get("/api/subscriptions/upcoming", subsHandler.Upcoming)

		r.Get("/api/settings", settingsHandler.Get)
		r.Put("/api/settings", settingsHandler.Update)

		r.Get("/api/profile", profileHandler.Get)
		r.Put("/api/profile", profileHandler.Update)

		r.Get("/api/insights", insightsHandler.Get)

		r.Get("/api/entitlement", entHandler.Status)
		r.Post("/api/entitlement/purchase", entHandler.Purchase)
		r.Post("/api/entitlement/restore", entHandler.Restore)
		r.Post("/api/entitlement/cancel", entHandler.Cancel)

		r.Get("/api/exports", exportsHandler.List)
		r.Post("/api/exports", exportsHandler.Create)
		r.Get("/api/exports/{jobID}", exportsHandler.Get)
	})

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
