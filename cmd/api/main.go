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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/festivo/festivo-api/internal/config"
	"github.com/festivo/festivo-api/internal/domain/auth"
	"github.com/festivo/festivo-api/internal/domain/gallery"
	"github.com/festivo/festivo-api/internal/domain/siteimage"
	"github.com/festivo/festivo-api/internal/middleware"
	"github.com/festivo/festivo-api/internal/pkg/database"
	"github.com/festivo/festivo-api/internal/pkg/jwt"
	"github.com/festivo/festivo-api/internal/pkg/response"
	"github.com/festivo/festivo-api/migrations"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Festivo API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(context.Background(), db, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	// ---------- Repositories ----------
	galleryRepo := gallery.NewRepository(db)
	siteImageRepo := siteimage.NewRepository(db)
	adminRepo := auth.NewRepository(db)

	// ---------- Services ----------
	galleryService := gallery.NewService(galleryRepo, redis, gallery.Limits{
		MaxImageBytes:   cfg.MaxImageBytes,
		MaxRequestBytes: cfg.MaxRequestImageBytes,
	})
	siteImageService := siteimage.NewService(siteImageRepo)
	authService := auth.NewService(adminRepo, jwtService)

	// ---------- Handlers ----------
	galleryHandler := gallery.NewHandler(galleryService)
	siteImageHandler := siteimage.NewHandler(siteImageService)
	authHandler := auth.NewHandler(authService)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)
	adminOnly := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/gallery", galleryHandler.Routes(optionalAuth, authMiddleware, adminOnly))
		r.Mount("/site-images", siteImageHandler.Routes(authMiddleware, adminOnly))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
