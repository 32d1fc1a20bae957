package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Totarae/ArrearsLetters/internal/model"
)

// ErrDuplicate возвращается при попытке сохранить уже занятый идентификатор.
var ErrDuplicate = errors.New("identifier already taken")

//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks

// LinkStore определяет интерфейс реестра коротких ссылок.
type LinkStore interface {
	// Has сообщает, занят ли идентификатор (включая истёкшие записи).
	Has(ctx context.Context, id string) (bool, error)
	// Save сохраняет новую запись; занятый id даёт ErrDuplicate.
	Save(ctx context.Context, link *model.ShortLink) error
	// Get возвращает запись или nil, если её нет.
	Get(ctx context.Context, id string) (*model.ShortLink, error)
	// IncrementClicks увеличивает счётчик переходов.
	IncrementClicks(ctx context.Context, id string) error
	// DeleteScope удаляет все ссылки области и возвращает их количество.
	DeleteScope(ctx context.Context, scope string) (int, error)
}

// LetterStore определяет интерфейс хранилища писем.
type LetterStore interface {
	Has(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, rec *model.LetterRecord) error
	// Get возвращает запись или nil, если её нет.
	Get(ctx context.Context, id string) (*model.LetterRecord, error)
	// ConsumeAccess атомарно (в пределах бэкенда) увеличивает accessCount,
	// если письмо активно, не истекло на момент now и лимит не исчерпан.
	ConsumeAccess(ctx context.Context, id string, now time.Time) (bool, error)
	DeleteScope(ctx context.Context, scope string) (int, error)
}
