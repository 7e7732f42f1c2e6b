package server

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/calmana/apiserver/config"
	"github.com/calmana/apiserver/internal/cache"
	"github.com/calmana/apiserver/internal/crypto"
	"github.com/calmana/apiserver/internal/db"
	"github.com/calmana/apiserver/internal/handlers"
	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
)

// analyticsCacheTTL bounds staleness of cached admin reports.
const analyticsCacheTTL = 30 * time.Second

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	encryptionKey, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
	}
	cipher, err := crypto.New(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	moodRepo := store.NewMoodRepository(dbConn)
	journalRepo := store.NewJournalRepository(dbConn)
	breathingRepo := store.NewBreathingRepository(dbConn)
	quizRepo := store.NewQuizRepository(dbConn)
	affirmationRepo := store.NewAffirmationRepository(dbConn)
	accountRepo := store.NewAccountRepository(dbConn)
	adminRepo := store.NewAdminRepository(dbConn)

	userService := services.NewUserService(userRepo)
	moodService := services.NewMoodService(moodRepo)
	journalService := services.NewJournalService(journalRepo, cipher)
	breathingService := services.NewBreathingService(breathingRepo)
	quizService := services.NewQuizService(quizRepo)
	affirmationService := services.NewAffirmationService(affirmationRepo)
	dashboardService := services.NewDashboardService(moodService, journalService, breathingService, quizService)
	accountService := services.NewAccountService(accountRepo, userService)
	analyticsService := services.NewAnalyticsService(adminRepo, cache.NewMemory(analyticsCacheTTL))

	authMiddleware := handlers.RequireAuth(cfg.JWTSecret)
	adminMiddleware := handlers.RequireAdmin(userService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, cfg.JWTSecret)
	})
	router.Route("/mood", func(r chi.Router) {
		handlers.MoodRouter(r, moodService, authMiddleware)
	})
	router.Route("/api/journal", func(r chi.Router) {
		handlers.JournalRouter(r, journalService, authMiddleware)
	})
	router.Route("/breathing", func(r chi.Router) {
		handlers.BreathingRouter(r, breathingService, authMiddleware)
	})
	router.Route("/api/quiz", func(r chi.Router) {
		handlers.QuizRouter(r, quizService, authMiddleware)
	})
	router.Route("/api/affirmations", func(r chi.Router) {
		handlers.AffirmationRouter(r, affirmationService, authMiddleware)
	})
	router.Route("/dashboard", func(r chi.Router) {
		handlers.DashboardRouter(r, dashboardService, authMiddleware)
	})
	router.Route("/api/account", func(r chi.Router) {
		handlers.AccountRouter(r, accountService, authMiddleware)
	})
	router.Route("/api/admin-data", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.AdminRouter(r, analyticsService, accountService, userService, adminRepo, journalRepo, adminMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
