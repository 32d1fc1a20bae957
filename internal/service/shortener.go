package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/metrics"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

// ErrLinkNotFound ссылка отсутствует, отключена или истекла.
var ErrLinkNotFound = errors.New("short link not found")

// ErrInvalidTarget целевой адрес не является абсолютным http(s) URL.
var ErrInvalidTarget = errors.New("invalid target url")

// DefaultLinkTTL срок жизни короткой ссылки.
const DefaultLinkTTL = 30 * 24 * time.Hour

// saveAttempts ограничивает повторы при гонке между проверкой и записью.
const saveAttempts = 3

// LinkService выпускает и разрешает короткие ссылки.
type LinkService struct {
	Store   storage.LinkStore
	IDs     *util.IDGenerator
	Logger  *zap.Logger
	BaseURL string
	TTL     time.Duration
	Now     func() time.Time
}

func NewLinkService(store storage.LinkStore, ids *util.IDGenerator, logger *zap.Logger, baseURL string, ttl time.Duration) *LinkService {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &LinkService{
		Store:   store,
		IDs:     ids,
		Logger:  logger,
		BaseURL: baseURL,
		TTL:     ttl,
		Now:     time.Now,
	}
}

// Mint stores a new short link to targetURL under scope and returns its id.
func (s *LinkService) Mint(ctx context.Context, targetURL, scope string) (string, error) {
	if u, err := url.Parse(targetURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, targetURL)
	}

	for attempt := 1; ; attempt++ {
		var lookupErr error
		id, widened, err := s.IDs.Next(func(candidate string) bool {
			taken, err := s.Store.Has(ctx, candidate)
			if err != nil {
				lookupErr = err
				return false
			}
			return taken
		})
		if lookupErr != nil {
			return "", fmt.Errorf("check short id: %w", lookupErr)
		}
		if err != nil {
			return "", err
		}
		if widened {
			metrics.ShortIDFallback.Inc()
			s.Logger.Warn("Short id widened after repeated collisions", zap.String("id", id))
		}

		now := s.Now()
		link := &model.ShortLink{
			ID:      id,
			URL:     targetURL,
			Scope:   scope,
			Created: now,
			Expires: now.Add(s.TTL),
			Active:  true,
		}
		err = s.Store.Save(ctx, link)
		if err == nil {
			metrics.ShortLinksMinted.Inc()
			return id, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) || attempt >= saveAttempts {
			return "", fmt.Errorf("save short link: %w", err)
		}
	}
}

// ShortURL строит публичный адрес ссылки.
func (s *LinkService) ShortURL(id string) string {
	return s.BaseURL + "/" + id
}

// Resolve returns the target of an active, unexpired link and counts the
// click. Counting is best effort: a failed increment is logged only.
func (s *LinkService) Resolve(ctx context.Context, id string) (string, error) {
	link, err := s.Store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if link == nil || !link.Resolvable(s.Now()) {
		metrics.ShortLinkResolves.WithLabelValues("not_found").Inc()
		return "", ErrLinkNotFound
	}

	if err := s.Store.IncrementClicks(ctx, id); err != nil {
		s.Logger.Warn("Failed to count click", zap.String("id", id), zap.Error(err))
	}
	metrics.ShortLinkResolves.WithLabelValues("redirect").Inc()
	return link.URL, nil
}

// PurgeScope удаляет все ссылки области.
func (s *LinkService) PurgeScope(ctx context.Context, scope string) (int, error) {
	return s.Store.DeleteScope(ctx, scope)
}
