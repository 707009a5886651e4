// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docbot/internal/common/config"
	"docbot/internal/common/logger"
	"docbot/internal/flow"
	"docbot/internal/ingest"
	"docbot/internal/profile"
	"docbot/internal/session"
	"docbot/internal/transport/telegram"
	"docbot/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// newProfileStore selects the answer-profile backend. Redis is the
// production backend; the file backend serves single-host deployments
// and local runs without infrastructure.
func newProfileStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (profile.Store, func(), error) {
	switch cfg.Profile.Backend {
	case "redis":
		client := profile.NewRedisClient(cfg.Profile.Redis.Address, cfg.Profile.Redis.Password, cfg.Profile.Redis.DB)
		store := profile.NewRedisStore(client)
		err := retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "file":
		store, err := profile.NewFileStore(cfg.Profile.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown profile backend %q", cfg.Profile.Backend)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting document bot...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Template registry ---
	reg, err := registry.Load(cfg.Templates.RegistryPath)
	if err != nil {
		zapLog.Fatal("registry load failed", zap.Error(err))
	}
	zapLog.Info("template registry loaded",
		zap.String("path", cfg.Templates.RegistryPath),
		zap.Int("templates", len(reg.Templates)),
	)

	if err := os.MkdirAll(cfg.Templates.OutputDir, 0o755); err != nil {
		zapLog.Fatal("output dir unavailable", zap.Error(err))
	}

	// --- Profile store ---
	profiles, closeProfiles, err := newProfileStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("profile store init failed", zap.Error(err))
	}
	defer closeProfiles()
	zapLog.Info("profile store ready", zap.String("backend", cfg.Profile.Backend))

	// --- Metrics endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, "ok")
			})
			zapLog.Info("metrics endpoint listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	// --- Transport ---
	bot, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.Telegram.PollTimeout,
	}, log)
	if err != nil {
		zapLog.Fatal("telegram init failed", zap.Error(err))
	}
	zapLog.Info("telegram authorized", zap.String("username", bot.Username()))

	// --- Conversation driver ---
	driver := flow.New(
		flow.Config{
			TemplateDir: cfg.Templates.Dir,
			OutputDir:   cfg.Templates.OutputDir,
		},
		reg,
		session.NewStore(),
		profiles,
		ingest.NewPlain(),
		bot,
		log,
	)

	if err := bot.Run(ctx, driver.Handle); err != nil && ctx.Err() == nil {
		zapLog.Fatal("update loop failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
