package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Totarae/ArrearsLetters/internal/database"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/jackc/pgx/v5"
)

// LetterRepository реализует storage.LetterStore; содержимое письма хранится в JSONB.
type LetterRepository struct {
	DB database.Querier
}

// NewLetterRepository создаёт новый экземпляр LetterRepository.
func NewLetterRepository(db database.Querier) *LetterRepository {
	return &LetterRepository{DB: db}
}

var _ storage.LetterStore = (*LetterRepository)(nil)

func (r *LetterRepository) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM letters WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check letter: %w", err)
	}
	return exists, nil
}

func (r *LetterRepository) Save(ctx context.Context, rec *model.LetterRecord) error {
	content, err := json.Marshal(rec.LetterContent)
	if err != nil {
		return err
	}
	query := `INSERT INTO letters (id, scope, content, created_at, expires_at, access_count, max_access, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.DB.Exec(ctx, query, rec.ID, rec.Scope, content, rec.CreatedAt, rec.ExpiresAt,
		rec.AccessCount, rec.MaxAccess, rec.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

func (r *LetterRepository) Get(ctx context.Context, id string) (*model.LetterRecord, error) {
	query := `SELECT id, scope, content, created_at, expires_at, access_count, max_access, is_active
              FROM letters WHERE id = $1`
	rec := &model.LetterRecord{}
	var content []byte
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Scope, &content, &rec.CreatedAt, &rec.ExpiresAt, &rec.AccessCount, &rec.MaxAccess, &rec.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch letter: %w", err)
	}
	if err := json.Unmarshal(content, &rec.LetterContent); err != nil {
		return nil, fmt.Errorf("decode letter %s: %w", id, err)
	}
	return rec, nil
}

// ConsumeAccess увеличивает счётчик просмотров одним условным UPDATE.
func (r *LetterRepository) ConsumeAccess(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `UPDATE letters SET access_count = access_count + 1
              WHERE id = $1 AND is_active AND expires_at >= $2 AND access_count < max_access`
	tag, err := r.DB.Exec(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("consume access: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LetterRepository) DeleteScope(ctx context.Context, scope string) (int, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM letters WHERE scope = $1`, scope)
	if err != nil {
		return 0, fmt.Errorf("delete scope: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
