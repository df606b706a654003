// Package server wires the store, repositories, services, handlers, and
// routes together, and owns the HTTP lifecycle.
//
// This is the composition root: every dependency is constructed here, in
// one place, and each layer only receives the interfaces it needs. The
// handlers never see the store; the services never see HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alvaro-reta/solari-market/internal/auth"
	"github.com/alvaro-reta/solari-market/internal/handler"
	"github.com/alvaro-reta/solari-market/internal/metrics"
	"github.com/alvaro-reta/solari-market/internal/middleware"
	"github.com/alvaro-reta/solari-market/internal/repository/sheet"
	"github.com/alvaro-reta/solari-market/internal/service"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port            int
	JWTSecret       string
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON []byte
}

// Server owns the router and the wired application.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New builds the full application.
//
// STORE SELECTION:
// With a spreadsheet ID configured, rows live in Google Sheets. Without
// one, the server runs on an in-memory store seeded with empty tables —
// useful for local development and demos, and loud about it in the log
// because every row is lost on restart.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	if err := s.setupRoutes(store); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func newStore(cfg Config, logger *slog.Logger) (tabular.Store, error) {
	if cfg.SpreadsheetID == "" {
		logger.Warn("no spreadsheet configured, using in-memory store; all data is lost on restart")
		mem := tabular.NewMemStore()
		for table, header := range sheet.Tables() {
			mem.Seed(table, header)
		}
		return mem, nil
	}

	store, err := tabular.NewSheetsStore(context.Background(), tabular.SheetsConfig{
		SpreadsheetID:   cfg.SpreadsheetID,
		CredentialsFile: cfg.CredentialsFile,
		CredentialsJSON: cfg.CredentialsJSON,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to sheets: %w", err)
	}
	return store, nil
}

// setupRoutes assembles the dependency chain and binds routes.
//
// ROUTE STRUCTURE:
//
//	POST /api/auth/register                       → create account
//	POST /api/auth/login                          → issue token
//	GET  /api/auth/me                   (auth)    → current profile
//	GET  /api/items                               → public listing
//	GET  /api/items/{id}                          → item detail
//	POST /api/items                     (auth)    → create listing
//	GET  /api/items-catalog                       → static catalog
//	GET  /api/regions, /api/servers               → reference data
//	POST /api/offers                    (auth)    → place offer
//	GET  /api/offers/my-offers          (auth)    → offer inbox
//	PUT  /api/offers/{id}               (auth)    → accept or reject
//	POST /api/messages                  (auth)    → send message
//	GET  /api/messages/conversation/{userId} (auth) → fetch conversation
//	GET  /api/my-items                  (auth)    → own listings
//	GET  /api/sales-stats               (auth)    → selling summary
//	GET  /metrics                                 → Prometheus scrape
//	GET  /healthz                                 → liveness probe
func (s *Server) setupRoutes(store tabular.Store) error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("configuring tokens: %w", err)
	}
	passwords := auth.NewPasswordService()

	db := sheet.New(store, s.logger)

	authService := service.NewAuthService(db.Users, tokens, passwords, s.logger)
	itemService := service.NewItemService(db.Items, db.Users, db.Offers, db.Catalog, s.logger)
	offerService := service.NewOfferService(db.Offers, db.Items, db.Users, s.logger)
	messageService := service.NewMessageService(db.Messages, db.Users, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	itemHandler := handler.NewItemHandler(itemService, s.logger)
	offerHandler := handler.NewOfferHandler(offerService, s.logger)
	messageHandler := handler.NewMessageHandler(messageService, s.logger)

	requireAuth := auth.RequireAuth(tokens, db.Users, s.logger)

	// Middleware order matters: RealIP first so the logger sees the real
	// client, Recoverer before anything that can panic, metrics around the
	// handlers so durations include handler time only.
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	s.router.Handle("/metrics", metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/items", itemHandler.HandleList)
		r.Get("/items/{id}", itemHandler.HandleGet)
		r.Get("/items-catalog", itemHandler.HandleCatalog)
		r.Get("/regions", itemHandler.HandleRegions)
		r.Get("/servers", itemHandler.HandleServers)

		// Routes that need a logged-in user
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/items", itemHandler.HandleCreate)
			r.Get("/my-items", itemHandler.HandleMyItems)
			r.Get("/sales-stats", itemHandler.HandleSalesStats)
			r.Post("/offers", offerHandler.HandleCreate)
			r.Get("/offers/my-offers", offerHandler.HandleMyOffers)
			r.Put("/offers/{id}", offerHandler.HandleRespond)
			r.Post("/messages", messageHandler.HandleSend)
			r.Get("/messages/conversation/{userId}", messageHandler.HandleConversation)
		})
	})

	return nil
}

// Router exposes the configured handler, mainly for tests that want to
// drive the full stack through httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.Bool("persistent", s.config.SpreadsheetID != ""),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
