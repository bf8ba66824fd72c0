package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"microgrid-valuation/internal/data"
	"microgrid-valuation/internal/log"

	"github.com/gin-gonic/gin"
	"github.com/levenlabs/go-lflag"
)

// Server is the HTTP front of the valuation engine.
type Server struct {
	listenAddr string
	presetDir  string
	staticDir  string
	cacheTTL   time.Duration
	release    bool

	cache      *data.RunCache
	httpServer *http.Server
}

// Configured registers the server flags. Fields are populated once
// lflag.Configure has parsed them.
func Configured() *Server {
	var s Server

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	presetDir := os.Getenv("PRESET_DIR")
	if presetDir == "" {
		presetDir = "./presets"
	}

	listenAddr := lflag.String("listen-addr", ":"+port, "HTTP server listen address")
	presets := lflag.String("preset-dir", presetDir, "Directory of project preset YAML files")
	static := lflag.String("static-dir", "./web/dist", "Directory of the built web app (skipped when missing)")
	cacheTTL := lflag.Duration("cache-ttl", data.DefaultRunTTL, "How long finished runs stay retrievable")
	release := lflag.Bool("release", false, "Run gin in release mode")

	lflag.Do(func() {
		s.listenAddr = *listenAddr
		s.presetDir = *presets
		s.staticDir = *static
		s.cacheTTL = *cacheTTL
		s.release = *release
	})
	return &s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.release {
		gin.SetMode(gin.ReleaseMode)
	}
	s.cache = data.NewRunCache(s.cacheTTL)
	go s.cache.Cleanup(ctx, time.Minute)

	s.httpServer = &http.Server{
		Addr: s.listenAddr,
		Handler: NewRouter(Options{
			Cache:     s.cache,
			PresetDir: s.presetDir,
			StaticDir: s.staticDir,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server",
			slog.String("addr", s.listenAddr),
			slog.String("preset_dir", s.presetDir),
			slog.Duration("cache_ttl", s.cacheTTL),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
