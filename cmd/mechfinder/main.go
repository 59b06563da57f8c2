package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shoplocal/mechfinder/internal/config"
	"github.com/shoplocal/mechfinder/internal/db"
	"github.com/shoplocal/mechfinder/internal/domain"
	dbRedis "github.com/shoplocal/mechfinder/internal/db/redis"
	logpkg "github.com/shoplocal/mechfinder/internal/logger"
	"github.com/shoplocal/mechfinder/internal/metrics"
	"github.com/shoplocal/mechfinder/internal/repository/catcache"
	directoryrepo "github.com/shoplocal/mechfinder/internal/repository/directory"
	placesrepo "github.com/shoplocal/mechfinder/internal/repository/places"
	chiTransport "github.com/shoplocal/mechfinder/internal/transport/chi"
	categoryuc "github.com/shoplocal/mechfinder/internal/usecase/category"
	healthuc "github.com/shoplocal/mechfinder/internal/usecase/health"
	searchuc "github.com/shoplocal/mechfinder/internal/usecase/search"
	"github.com/shoplocal/mechfinder/internal/version"
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mechfinder API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("directory_url", cfg.Directory.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	// Category cache is optional; the search path never depends on it.
	var store db.Store
	if cfg.Cache.Enabled() {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		ctx := context.Background()
		readyTimeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readyTimeout); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")
		store = redisStore
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Create repositories
	directory := directoryrepo.New(directoryrepo.Config{
		BaseURL: cfg.Directory.BaseURL,
		APIKey:  cfg.Directory.APIKey,
		Timeout: time.Duration(cfg.Directory.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	places := placesrepo.New(placesrepo.Config{
		APIKey:            cfg.Places.APIKey,
		BaseURL:           cfg.Places.BaseURL,
		MaxResults:        cfg.Places.MaxResults,
		Timeout:           time.Duration(cfg.Places.TimeoutSec) * time.Second,
		RequestsPerSecond: cfg.Places.RequestsPerSecond,
		Burst:             cfg.Places.Burst,
		Chains:            placesrepo.NewChainFilter(cfg.Search.ChainDenylist),
		Logger:            logger,
	})

	// Wrap the taxonomy read in the cache decorator when a store is present.
	var categoryReader categoryuc.Reader = directory
	if store != nil {
		categoryReader = catcache.New(
			directory, store,
			time.Duration(cfg.Cache.CategoryTTLSec)*time.Second,
			metrics.CategoryCacheTotal, logger,
		)
	}

	// Create use case services
	searchSvc := searchuc.New(directory, places, logger)
	categorySvc := categoryuc.New(categoryReader)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, map[string]healthuc.SourceChecker{
		"directory": directory,
		"places":    places,
	})

	// Create chi server
	limits := domain.QueryLimits{
		DefaultRadiusMeters: cfg.Search.DefaultRadiusMeters,
		MaxRadiusMeters:     cfg.Search.MaxRadiusMeters,
	}
	server := chiTransport.NewServer(searchSvc, categorySvc, healthSvc, limits, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
