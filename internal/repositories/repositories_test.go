package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Totarae/ArrearsLetters/internal/database/mocks"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeRow отдаёт заранее заданную функцию сканирования.
type fakeRow func(dest ...any) error

func (f fakeRow) Scan(dest ...any) error { return f(dest...) }

func TestLinkRepository_SaveDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockQuerier(ctrl)
	repo := NewLinkRepository(q)

	q.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"})

	err := repo.Save(context.Background(), &model.ShortLink{ID: "abc123"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestLinkRepository_GetMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockQuerier(ctrl)
	repo := NewLinkRepository(q)

	q.EXPECT().QueryRow(gomock.Any(), gomock.Any(), "nope12").
		Return(fakeRow(func(...any) error { return pgx.ErrNoRows }))

	link, err := repo.Get(context.Background(), "nope12")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestLinkRepository_Has(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockQuerier(ctrl)
	repo := NewLinkRepository(q)

	q.EXPECT().QueryRow(gomock.Any(), gomock.Any(), "abc123").
		Return(fakeRow(func(dest ...any) error {
			*(dest[0].(*bool)) = true
			return nil
		}))

	ok, err := repo.Has(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLinkRepository_DeleteScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockQuerier(ctrl)
	repo := NewLinkRepository(q)

	q.EXPECT().Exec(gomock.Any(), gomock.Any(), "run1").Return(pgconn.NewCommandTag("DELETE 3"), nil)

	n, err := repo.DeleteScope(context.Background(), "run1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLetterRepository_ConsumeAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockQuerier(ctrl)
	repo := NewLetterRepository(q)
	now := time.Now()

	gomock.InOrder(
		q.EXPECT().Exec(gomock.Any(), gomock.Any(), "0123456789abcdef", now).Return(pgconn.NewCommandTag("UPDATE 1"), nil),
		q.EXPECT().Exec(gomock.Any(), gomock.Any(), "0123456789abcdef", now).Return(pgconn.NewCommandTag("UPDATE 0"), nil),
	)

	ok, err := repo.ConsumeAccess(context.Background(), "0123456789abcdef", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ConsumeAccess(context.Background(), "0123456789abcdef", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLetterRepository_GetDecodesContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockQuerier(ctrl)
	repo := NewLetterRepository(q)

	content, err := json.Marshal(model.LetterContent{CustomerName: "Mr J Dupont", PolicyNo: "00520/0001149"})
	require.NoError(t, err)

	q.EXPECT().QueryRow(gomock.Any(), gomock.Any(), "0123456789abcdef").
		Return(fakeRow(func(dest ...any) error {
			*(dest[0].(*string)) = "0123456789abcdef"
			*(dest[1].(*string)) = "run"
			*(dest[2].(*[]byte)) = content
			*(dest[5].(*int)) = 4
			*(dest[6].(*int)) = 10
			*(dest[7].(*bool)) = true
			return nil
		}))

	rec, err := repo.Get(context.Background(), "0123456789abcdef")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Mr J Dupont", rec.CustomerName)
	assert.Equal(t, 4, rec.AccessCount)
	assert.Equal(t, "run", rec.Scope)
}
