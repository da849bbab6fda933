package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"moodlog/internal/config"
	"moodlog/internal/db"
	"moodlog/internal/handlers"
	mw "moodlog/internal/middleware"
	"moodlog/internal/service"
	"moodlog/internal/store"
	"moodlog/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	dbConn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Up(dbConn.DB); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	users := store.NewUserRepository(dbConn, logger)
	moods := store.NewMoodRepository(dbConn, logger)
	authSvc := service.NewAuthService(users, []byte(cfg.JWTSecret), cfg.TokenTTL, cfg.BcryptCost, logger)
	moodSvc := service.NewMoodService(moods, logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	userHandler := handlers.NewUserHandler(authSvc, logger)
	moodHandler := handlers.NewMoodHandler(moodSvc, logger)
	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/me", userHandler.GetMe)
			pr.Put("/me", userHandler.UpdateMe)
			pr.Get("/moods", moodHandler.List)
			pr.Post("/moods", moodHandler.Create)
			pr.Get("/moods/range", moodHandler.GetByDateRange)
			pr.Get("/moods/stats", moodHandler.Stats)
			pr.Get("/moods/date/{date}", moodHandler.GetByDate)
			pr.Get("/moods/{id}", moodHandler.GetByID)
			pr.Put("/moods/{id}", moodHandler.Update)
			pr.Delete("/moods/{id}", moodHandler.Delete)
		})
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
