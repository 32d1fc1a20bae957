package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Totarae/ArrearsLetters/internal/batch"
	"github.com/Totarae/ArrearsLetters/internal/config"
	"github.com/Totarae/ArrearsLetters/internal/lock"
	"github.com/Totarae/ArrearsLetters/internal/notify"
	"github.com/Totarae/ArrearsLetters/internal/payment"
	"github.com/Totarae/ArrearsLetters/internal/templates"
)

// app общее окружение команд.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *templates.Catalog
	closers []func()
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	catalog, err := templates.Load(cfg.TemplatesFile)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: newLogger(cfg.LogFile), catalog: catalog}, nil
}

// newLogger пишет JSON в stdout и, если задан path, в ротируемый файл.
func newLogger(path string) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), zap.InfoLevel),
	}
	if path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(file), zap.DebugLevel))
	}
	return zap.New(zapcore.NewTee(cores...))
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

func (a *app) template(name string) templates.Template {
	t, ok := a.catalog.Lookup(name)
	if !ok {
		a.logger.Warn("Unknown template, using default", zap.String("template", name), zap.String("default", t.Name))
	}
	return t
}

func (a *app) coder() *payment.Client {
	return payment.NewClient(a.cfg.PaymentAPIURL, a.cfg.PaymentTimeout, a.cfg.PaymentRPS, a.logger)
}

func (a *app) locker() lock.Locker {
	if a.cfg.RedisAddr == "" {
		return lock.NewFileLocker(a.cfg.LettersDir)
	}
	client := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr, Password: a.cfg.RedisPassword})
	a.closers = append(a.closers, func() { _ = client.Close() })
	return lock.NewRedisLocker(client, 0)
}

// notify отправляет итог запуска на USER_EMAIL; ошибки только пишутся в журнал.
func (a *app) notify(ctx context.Context, subject string, sum *batch.Summary) {
	b := a.cfg.Brevo
	mailer := notify.NewBrevo(b.APIKey, b.SenderEmail, b.SenderName, a.logger)
	if !mailer.Enabled() || b.UserEmail == "" {
		return
	}
	if err := mailer.Send(ctx, notify.SummaryEmail(b.UserEmail, b.UserName, subject, sum.Lines())); err != nil {
		a.logger.Warn("Completion email failed", zap.Error(err))
	}
}
