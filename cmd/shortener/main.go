package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/auth"
	"github.com/Totarae/ArrearsLetters/internal/config"
	"github.com/Totarae/ArrearsLetters/internal/handlers"
	"github.com/Totarae/ArrearsLetters/internal/middleware"
	"github.com/Totarae/ArrearsLetters/internal/router"
	"github.com/Totarae/ArrearsLetters/internal/service"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error("Ошибка конфигурации", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Сервер остановлен с ошибкой", zap.Error(err))
		os.Exit(1)
	}
}

// newServer собирает хранилища, сервисы и маршрутизатор.
func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*http.Server, *service.Backends, error) {
	backends, err := service.OpenBackends(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AuthSecret == "" {
		logger.Warn("AUTH_SECRET не задан, служебное API отключено")
	}

	links := service.NewLinkService(backends.Links, util.NewIDGenerator(cfg.ShortIDAlphabet), logger, cfg.ShortBaseURL, cfg.LinkTTL)
	letters := service.NewLetterService(backends.Letters, logger, cfg.LinkTTL, cfg.LetterMaxAccess)
	handler := handlers.NewHandler(links, letters, backends, logger)

	r := router.NewRouter(handler, auth.New(cfg.AuthSecret), middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst), logger)
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv, backends, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	srv, backends, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен",
			zap.String("address", cfg.ServerAddress),
			zap.String("mode", cfg.Mode),
			zap.Bool("https", cfg.EnableHTTPS))
		if cfg.EnableHTTPS {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Останавливаем сервер")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
