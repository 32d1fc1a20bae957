package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/config"
	"github.com/Totarae/ArrearsLetters/internal/database"
	"github.com/Totarae/ArrearsLetters/internal/repositories"
	"github.com/Totarae/ArrearsLetters/internal/storage"
)

// Backends хранилища ссылок и писем для выбранного режима.
type Backends struct {
	Links   storage.LinkStore
	Letters storage.LetterStore
	DB      database.DBInterface
}

// OpenBackends выбирает хранилища по cfg.Mode. В режиме database применяет миграции.
func OpenBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
			return nil, err
		}
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		return &Backends{
			Links:   repositories.NewLinkRepository(db.Pool),
			Letters: repositories.NewLetterRepository(db.Pool),
			DB:      db,
		}, nil
	case config.ModeFile:
		return &Backends{
			Links:   storage.NewFileLinkStore(cfg.FileStoragePath),
			Letters: storage.NewFileLetterStore(cfg.LettersDir),
		}, nil
	default:
		return &Backends{
			Links:   storage.NewMemoryLinkStore(),
			Letters: storage.NewMemoryLetterStore(),
		}, nil
	}
}

// Ping проверяет доступность БД; в остальных режимах всегда успешен.
func (b *Backends) Ping(ctx context.Context) error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Ping(ctx)
}

// Close освобождает подключение к БД.
func (b *Backends) Close() {
	if b.DB != nil {
		b.DB.Close()
	}
}
