package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/shubham03062002/ChillScreen-Backend/internal/app/migrate"
	"github.com/shubham03062002/ChillScreen-Backend/internal/cache"
	httpx "github.com/shubham03062002/ChillScreen-Backend/internal/http"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository/postgres"
	"github.com/shubham03062002/ChillScreen-Backend/internal/service/auth"
	"github.com/shubham03062002/ChillScreen-Backend/internal/service/lists"
	"github.com/shubham03062002/ChillScreen-Backend/internal/service/profile"
	"github.com/shubham03062002/ChillScreen-Backend/pkg/config"
	"github.com/shubham03062002/ChillScreen-Backend/pkg/logger"
)

// loadDotenv overlays a .env file when one exists near the working directory.
func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			return
		}
	}
}

func main() {
	loadDotenv()
	cfg := config.LoadAPIConfig()
	log := logger.New("api", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	var profileCache *cache.ProfileCache
	if cfg.RedisAddr != "" {
		profileCache, err = cache.NewProfileCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ProfileCacheTTL, log)
		if err != nil {
			log.Warn("profile cache unavailable", "error", err)
		} else {
			defer profileCache.Close()
		}
	}

	repo := postgres.New(pool)
	authSvc := auth.New(repo, log, cfg)
	listsSvc := lists.New(repo, profileCache, log)
	profileSvc := profile.New(repo, profileCache, log)

	router := httpx.NewRouter(log, authSvc, listsSvc, profileSvc, cfg, pool.Ping)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr, "env", cfg.Environment)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
