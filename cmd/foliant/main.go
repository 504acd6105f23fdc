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
	"go.uber.org/zap"

	"github.com/folianet/foliant/internal/config"
	dbRedis "github.com/folianet/foliant/internal/db/redis"
	"github.com/folianet/foliant/internal/domain"
	logpkg "github.com/folianet/foliant/internal/logger"
	"github.com/folianet/foliant/internal/metrics"
	keyboardrepo "github.com/folianet/foliant/internal/repository/keyboard"
	prefsrepo "github.com/folianet/foliant/internal/repository/prefs"
	chiTransport "github.com/folianet/foliant/internal/transport/chi"
	"github.com/folianet/foliant/internal/transport/searchapi"
	contentsuc "github.com/folianet/foliant/internal/usecase/contents"
	healthuc "github.com/folianet/foliant/internal/usecase/health"
	keyboarduc "github.com/folianet/foliant/internal/usecase/keyboard"
	prefsuc "github.com/folianet/foliant/internal/usecase/prefs"
	searchuc "github.com/folianet/foliant/internal/usecase/search"
	"github.com/folianet/foliant/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting foliant front-end",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_service", cfg.Upstream.BaseURL),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register upstream metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()

	// Outbound search-service client
	client := searchapi.NewClient(&searchapi.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		ExternalURL: cfg.Upstream.ExternalURL,
		Timeout:     time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	// Create repositories
	prefsRepo := prefsrepo.New(store, cfg.Storage.KeyPrefix)
	keyboardRepo := keyboardrepo.New(store, cfg.Storage.KeyPrefix)

	// Create use case services
	searchSvc := searchuc.New(client)
	if cfg.ReadOnline.Enabled {
		pages, err := domain.PageTransformByName(cfg.ReadOnline.PageNumbering)
		if err != nil {
			logger.Fatal("Invalid page numbering", zap.Error(err))
		}
		searchSvc = searchSvc.WithReadOnline(cfg.ReadOnline.PageURL, pages)
	}
	contentsSvc := contentsuc.New(client)
	prefsSvc := prefsuc.New(prefsRepo, domain.Preferences{
		ResultsPerPage: cfg.Search.ResultsPerPage,
		SnippetsPerDoc: cfg.Search.SnippetsPerDoc,
		Language:       cfg.Search.Language,
	})
	keyboardSvc := keyboarduc.New(keyboardRepo, domain.KeyboardMapping{
		Mapping: cfg.Keyboard.Mapping,
		Enabled: cfg.Keyboard.Enabled,
	})
	healthSvc := healthuc.New(store, client)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, contentsSvc, prefsSvc, keyboardSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.IdentityMiddleware(cfg.Auth.UserHeader))
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
