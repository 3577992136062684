// Package server provides HTTP server initialization and lifecycle management
// for the lostpaws search API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/internal/config"
	"github.com/scrypster/lostpaws/internal/logging"
	"github.com/scrypster/lostpaws/internal/storage"
	"github.com/scrypster/lostpaws/web/handlers"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server.
// It returns the actual address being listened on (useful for testing with
// port 0) and the WebSocketHub that pushes recomputed search areas.
// The server shuts down when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, store storage.ReportStore, recommender handlers.SearchRecommender, logger *zap.Logger) (string, *handlers.WebSocketHub, error) {
	logger = logging.OrNop(logger)
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	wsHub := handlers.NewWebSocketHub(originPatterns(actualAddr), logger)
	go wsHub.Run()

	// Create rate limiter (10 req/sec, burst of 20)
	rateLimiter := handlers.NewRateLimiter(10.0, 20)

	apiHandlers := handlers.NewAPIHandlers(store, recommender, wsHub, cfg, logger)
	apiMux := http.NewServeMux()
	apiHandlers.RegisterRoutes(apiMux)

	mux := http.NewServeMux()

	// Health endpoint, no auth required
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"healthy","version":%q}`, Version)
	})

	// API routes require auth in production mode
	mux.Handle("/api/", handlers.RequireAuth(handlers.RequestLogger(logger.Named("http"))(apiMux), cfg))

	// WebSocket endpoint (origin validation handles security)
	mux.Handle("GET /ws", wsHub)

	// Wrap entire server with rate limiting, then security headers
	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // covers the remote analysis timeout
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown error", zap.Error(err))
		}
		wsHub.Stop()
	}()

	logger.Info("server listening", zap.String("addr", actualAddr))
	return actualAddr, wsHub, nil
}

// originPatterns accepts browser pages served from the listen address and
// from localhost on the same port.
func originPatterns(addr string) []string {
	patterns := []string{addr}
	if _, port, err := net.SplitHostPort(addr); err == nil {
		patterns = append(patterns, "localhost:"+port, "127.0.0.1:"+port)
	}
	return patterns
}
