package router

import (
	"compress/gzip"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/auth"
	"github.com/Totarae/ArrearsLetters/internal/handlers"
	"github.com/Totarae/ArrearsLetters/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, authService *auth.Auth, limiter *middleware.RateLimiter, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.Compression(gzip.DefaultCompression))

	r.Get("/ping", handler.Ping)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// публичные маршруты из SMS
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Handler)
		}
		r.Get("/{id:[a-z0-9]{6,8}}", handler.ResolveShort)
		r.Get("/letter/{id:[0-9a-f]{16}}", handler.ViewLetter)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authService.Require)
		r.Post("/shorten", handler.ShortenAPI)
		r.Delete("/scopes/{folder}", handler.PurgeScope)
	})
	return r
}
