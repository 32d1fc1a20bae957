package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/metrics"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
)

// Исходы чтения письма.
var (
	ErrLetterNotFound        = errors.New("letter not found")
	ErrLetterExpired         = errors.New("letter expired")
	ErrLetterAccessExhausted = errors.New("letter access limit reached")
)

// Параметры писем по умолчанию.
const (
	DefaultLetterTTL = 30 * 24 * time.Hour
	DefaultMaxAccess = 10
)

const letterIDAttempts = 5

// LetterService создаёт и выдаёт записи писем.
type LetterService struct {
	Store     storage.LetterStore
	Logger    *zap.Logger
	TTL       time.Duration
	MaxAccess int
	Now       func() time.Time
	Rand      io.Reader
}

func NewLetterService(store storage.LetterStore, logger *zap.Logger, ttl time.Duration, maxAccess int) *LetterService {
	if ttl <= 0 {
		ttl = DefaultLetterTTL
	}
	if maxAccess <= 0 {
		maxAccess = DefaultMaxAccess
	}
	return &LetterService{
		Store:     store,
		Logger:    logger,
		TTL:       ttl,
		MaxAccess: maxAccess,
		Now:       time.Now,
		Rand:      rand.Reader,
	}
}

// NewLetterID возвращает первые 16 hex-символов SHA-256 от
// "policy-row-timestamp-random".
func NewLetterID(policyNo string, rowIndex int, ts time.Time, rnd io.Reader) (string, error) {
	nonce := make([]byte, 8)
	if _, err := io.ReadFull(rnd, nonce); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	seed := fmt.Sprintf("%s-%d-%s-%s", policyNo, rowIndex, ts.Format("2006-01-02T15:04:05.000000"), hex.EncodeToString(nonce))
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16], nil
}

// Create stores content under scope and returns the new letter id.
func (s *LetterService) Create(ctx context.Context, scope string, content model.LetterContent) (string, error) {
	for attempt := 0; attempt < letterIDAttempts; attempt++ {
		now := s.Now()
		id, err := NewLetterID(content.PolicyNo, content.RowIndex, now, s.Rand)
		if err != nil {
			return "", err
		}
		taken, err := s.Store.Has(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check letter id: %w", err)
		}
		if taken {
			s.Logger.Warn("Letter id collision", zap.String("id", id))
			continue
		}

		rec := &model.LetterRecord{
			LetterContent: content,
			ID:            id,
			Scope:         scope,
			CreatedAt:     now,
			ExpiresAt:     now.Add(s.TTL),
			MaxAccess:     s.MaxAccess,
			IsActive:      true,
		}
		err = s.Store.Save(ctx, rec)
		if errors.Is(err, storage.ErrDuplicate) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save letter: %w", err)
		}
		return id, nil
	}
	return "", fmt.Errorf("no free letter id after %d attempts", letterIDAttempts)
}

// Get returns the record and counts the view, or one of ErrLetterNotFound,
// ErrLetterExpired, ErrLetterAccessExhausted.
func (s *LetterService) Get(ctx context.Context, id string) (*model.LetterRecord, error) {
	rec, err := s.check(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.Store.ConsumeAccess(ctx, id, s.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// запись изменилась между чтением и обновлением
		if _, err := s.check(ctx, id); err != nil {
			return nil, err
		}
		metrics.LetterViews.WithLabelValues("exhausted").Inc()
		return nil, ErrLetterAccessExhausted
	}

	rec.AccessCount++
	metrics.LetterViews.WithLabelValues("ok").Inc()
	return rec, nil
}

// check классифицирует запись без изменения счётчика.
func (s *LetterService) check(ctx context.Context, id string) (*model.LetterRecord, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case rec == nil:
		metrics.LetterViews.WithLabelValues("not_found").Inc()
		return nil, ErrLetterNotFound
	case rec.Expired(s.Now()):
		metrics.LetterViews.WithLabelValues("expired").Inc()
		return nil, ErrLetterExpired
	case rec.Exhausted():
		metrics.LetterViews.WithLabelValues("exhausted").Inc()
		return nil, ErrLetterAccessExhausted
	}
	return rec, nil
}

// PurgeScope удаляет все письма области.
func (s *LetterService) PurgeScope(ctx context.Context, scope string) (int, error) {
	return s.Store.DeleteScope(ctx, scope)
}
