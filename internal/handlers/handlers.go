package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/service"
	"github.com/Totarae/ArrearsLetters/internal/storage"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обслуживает короткие ссылки, просмотр писем и служебное API.
type Handler struct {
	Links    *service.LinkService
	Letters  *service.LetterService
	Pinger   Pinger
	Logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler создаёт обработчики поверх сервисов.
func NewHandler(links *service.LinkService, letters *service.LetterService, pinger Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Links:    links,
		Letters:  letters,
		Pinger:   pinger,
		Logger:   logger,
		validate: validator.New(),
	}
}

// ResolveShort перенаправляет короткую ссылку на целевой адрес.
func (h *Handler) ResolveShort(res http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if id == "" {
		http.Error(res, "Bad Request: Missing ID in URL", http.StatusBadRequest)
		return
	}

	target, err := h.Links.Resolve(req.Context(), id)
	if errors.Is(err, service.ErrLinkNotFound) {
		http.NotFound(res, req)
		return
	}
	if err != nil {
		h.Logger.Error("Ошибка получения ссылки", zap.String("id", id), zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(res, req, target, http.StatusMovedPermanently)
}

// ShortenAPI выпускает короткую ссылку: {"longUrl": ...} -> {"shortUrl": ...}.
func (h *Handler) ShortenAPI(res http.ResponseWriter, req *http.Request) {
	var body model.ShortenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(res, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		http.Error(res, "longUrl must be an absolute URL", http.StatusBadRequest)
		return
	}

	id, err := h.Links.Mint(req.Context(), body.LongURL, body.Scope)
	if errors.Is(err, service.ErrInvalidTarget) {
		http.Error(res, "longUrl must be an http(s) URL", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.Logger.Error("Ошибка выпуска ссылки", zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(res, http.StatusCreated, model.ShortenResponse{ID: id, ShortURL: h.Links.ShortURL(id)})
}

// PurgeScope удаляет письма и ссылки папки.
func (h *Handler) PurgeScope(res http.ResponseWriter, req *http.Request) {
	scope := chi.URLParam(req, "folder")
	if err := storage.ValidScope(scope); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	letters, err := h.Letters.PurgeScope(req.Context(), scope)
	if err != nil {
		h.Logger.Error("Ошибка удаления писем", zap.String("folder", scope), zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	links, err := h.Links.PurgeScope(req.Context(), scope)
	if err != nil {
		h.Logger.Error("Ошибка удаления ссылок", zap.String("folder", scope), zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Logger.Info("Папка очищена", zap.String("folder", scope), zap.Int("letters", letters), zap.Int("links", links))
	writeJSON(res, http.StatusOK, model.PurgeResponse{Scope: scope, Letters: letters, Links: links})
}

// Ping проверяет подключение к хранилищу.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	if h.Pinger != nil {
		if err := h.Pinger.Ping(req.Context()); err != nil {
			h.Logger.Error("Хранилище недоступно", zap.Error(err))
			http.Error(res, "Database connection error", http.StatusInternalServerError)
			return
		}
	}
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write([]byte("OK"))
}

func writeJSON(res http.ResponseWriter, status int, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res).Encode(v)
}
