package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/ArrearsLetters/internal/database"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// LinkRepository реализует storage.LinkStore с использованием PostgreSQL.
type LinkRepository struct {
	DB database.Querier
}

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db database.Querier) *LinkRepository {
	return &LinkRepository{DB: db}
}

var _ storage.LinkStore = (*LinkRepository)(nil)

// uniqueViolation код SQLSTATE нарушения уникальности.
const uniqueViolation = "23505"

// isUniqueViolation распознаёт конфликт первичного ключа.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Has проверяет, занят ли идентификатор.
func (r *LinkRepository) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM short_links WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check short link: %w", err)
	}
	return exists, nil
}

// Save сохраняет ссылку в базу данных.
func (r *LinkRepository) Save(ctx context.Context, link *model.ShortLink) error {
	query := `INSERT INTO short_links (id, url, scope, created, expires, clicks, active)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.Exec(ctx, query, link.ID, link.URL, link.Scope, link.Created, link.Expires, link.Clicks, link.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// Get извлекает ссылку по идентификатору.
func (r *LinkRepository) Get(ctx context.Context, id string) (*model.ShortLink, error) {
	query := `SELECT id, url, scope, created, expires, clicks, active FROM short_links WHERE id = $1`
	link := &model.ShortLink{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&link.ID, &link.URL, &link.Scope, &link.Created, &link.Expires, &link.Clicks, &link.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch short link: %w", err)
	}
	return link, nil
}

// IncrementClicks увеличивает счётчик одной атомарной командой.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `UPDATE short_links SET clicks = clicks + 1 WHERE id = $1`, id)
	return err
}

// DeleteScope удаляет ссылки области.
func (r *LinkRepository) DeleteScope(ctx context.Context, scope string) (int, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM short_links WHERE scope = $1`, scope)
	if err != nil {
		return 0, fmt.Errorf("delete scope: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
