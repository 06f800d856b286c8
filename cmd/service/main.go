package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/bulatminnakhmetov/inkmatch-backend/docs"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/auth"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/cache"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/config"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/database"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/response"
	savedsearchHandler "github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/savedsearch"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/logger"
	profileRepo "github.com/bulatminnakhmetov/inkmatch-backend/internal/repository/profile"
	savedsearchRepo "github.com/bulatminnakhmetov/inkmatch-backend/internal/repository/savedsearch"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search/live"
	savedsearchService "github.com/bulatminnakhmetov/inkmatch-backend/internal/service/savedsearch"
)

// @title          InkMatch Search API
// @version        1.0
// @description    Faceted search over tattoo artists and studios.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logFormat := logger.FormatText
	if cfg.IsProduction() {
		logFormat = logger.FormatJSON
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: logFormat})
	slog.SetDefault(log)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	searchOpts := []search.Option{search.WithLogger(log)}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			// searches still work without the cache
			log.Warn("Search cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			searchOpts = append(searchOpts, search.WithCache(cache.NewRedisCache(rdb, cfg.SearchCacheTTL)))
			log.Info("Search cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.SearchCacheTTL)
		}
	}

	searchSvc := search.NewSearchService(profileRepo.NewPostgresRepository(db), searchOpts...)
	searchH := search.NewSearchHandler(searchSvc, log)
	liveH := live.NewHandler(searchSvc, cfg.LiveSearchDebounce, cfg.CORSAllowedOrigins, log)

	savedSvc := savedsearchService.NewSavedSearchService(savedsearchRepo.NewPostgresRepository(db), log)
	savedH := savedsearchHandler.NewSavedSearchHandler(savedSvc, log)

	verifier := auth.NewTokenVerifier(cfg.JWTSecret)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/health", healthHandler(db))

	// the websocket route must not sit behind the request timeout
	r.Get("/api/profiles/live", liveH.ServeLive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/api/profiles", searchH.SearchProfiles)
		r.Get("/api/profiles/catalog/specialties", searchH.GetSpecialties)

		r.Route("/api/saved-searches", func(r chi.Router) {
			r.Use(auth.Middleware(verifier))
			r.Post("/", savedH.CreateSavedSearch)
			r.Get("/", savedH.ListSavedSearches)
			r.Get("/{id}", savedH.GetSavedSearch)
			r.Delete("/{id}", savedH.DeleteSavedSearch)
		})
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		log.Info("Server is starting", "port", cfg.ServerPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Could not listen", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server gracefully stopped")
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			response.Error(w, http.StatusServiceUnavailable, response.CodeInternal, "Database unavailable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
