package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/Totarae/ArrearsLetters/internal/storage/mocks"
)

func sampleContent() model.LetterContent {
	return model.LetterContent{
		CustomerName: "Mr Jean Dupont",
		PolicyNo:     "00520/0001149",
		MobileNo:     "57123456",
		RowIndex:     3,
	}
}

func TestNewLetterID(t *testing.T) {
	ts := time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC)
	a, err := NewLetterID("00520/0001149", 3, ts, bytes.NewReader(make([]byte, 8)))
	require.NoError(t, err)
	b, err := NewLetterID("00520/0001149", 3, ts, bytes.NewReader(make([]byte, 8)))
	require.NoError(t, err)
	c, err := NewLetterID("00520/0001149", 3, ts, bytes.NewReader([]byte{1, 0, 0, 0, 0, 0, 0, 0}))
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{16}$`, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestLetterService_AccessLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewLetterService(storage.NewMemoryLetterStore(), zap.NewNop(), 0, 0)

	id, err := svc.Create(ctx, "run", sampleContent())
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		rec, err := svc.Get(ctx, id)
		require.NoError(t, err, "view %d", i)
		assert.Equal(t, i, rec.AccessCount)
		assert.Equal(t, "Mr Jean Dupont", rec.CustomerName)
	}

	rec, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrLetterAccessExhausted)
	assert.Nil(t, rec)
}

func TestLetterService_Expired(t *testing.T) {
	ctx := context.Background()
	svc := NewLetterService(storage.NewMemoryLetterStore(), zap.NewNop(), 0, 0)
	created := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return created }

	id, err := svc.Create(ctx, "run", sampleContent())
	require.NoError(t, err)

	svc.Now = func() time.Time { return created.Add(30*24*time.Hour + time.Second) }
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrLetterExpired)

	_, err = svc.Get(ctx, "ffffffffffffffff")
	assert.ErrorIs(t, err, ErrLetterNotFound)
}

func TestLetterService_InactiveIsExpired(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryLetterStore()
	require.NoError(t, store.Save(ctx, &model.LetterRecord{
		ID: "0123456789abcdef", Scope: "run", ExpiresAt: time.Now().Add(time.Hour), MaxAccess: 10,
	}))
	svc := NewLetterService(store, zap.NewNop(), 0, 0)

	_, err := svc.Get(ctx, "0123456789abcdef")
	assert.ErrorIs(t, err, ErrLetterExpired)
}

func TestLetterService_FileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	svc := NewLetterService(storage.NewFileLetterStore(root), zap.NewNop(), 0, 2)

	id, err := svc.Create(ctx, "SPH_Aug", sampleContent())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "SPH_Aug", id+".json"))

	_, err = svc.Get(ctx, id)
	require.NoError(t, err)
	_, err = svc.Get(ctx, id)
	require.NoError(t, err)
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrLetterAccessExhausted)
}

func TestLetterService_PurgeScopeLeavesNothing(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	svc := NewLetterService(storage.NewFileLetterStore(root), zap.NewNop(), 0, 0)

	first, err := svc.Create(ctx, "run", sampleContent())
	require.NoError(t, err)

	_, err = svc.PurgeScope(ctx, "run")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "run", sampleContent())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "run"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second+".json", entries[0].Name())

	_, err = svc.Get(ctx, first)
	assert.ErrorIs(t, err, ErrLetterNotFound)
}

func TestLetterService_CreateRetriesOnCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLetterStore(ctrl)
	svc := NewLetterService(store, zap.NewNop(), 0, 0)

	gomock.InOrder(
		store.EXPECT().Has(gomock.Any(), gomock.Any()).Return(true, nil),
		store.EXPECT().Has(gomock.Any(), gomock.Any()).Return(false, nil),
	)
	var saved *model.LetterRecord
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *model.LetterRecord) error {
		saved = rec
		return nil
	})

	id, err := svc.Create(context.Background(), "run", sampleContent())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, 0, saved.AccessCount)
	assert.Equal(t, 10, saved.MaxAccess)
	assert.True(t, saved.IsActive)
	assert.Equal(t, saved.CreatedAt.Add(30*24*time.Hour), saved.ExpiresAt)
}

func TestLetterService_LostRaceReportsExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLetterStore(ctrl)
	svc := NewLetterService(store, zap.NewNop(), 0, 0)
	rec := &model.LetterRecord{ID: "0123456789abcdef", ExpiresAt: time.Now().Add(time.Hour), MaxAccess: 10, AccessCount: 9, IsActive: true}
	after := *rec
	after.AccessCount = 10

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), rec.ID).Return(rec, nil),
		store.EXPECT().ConsumeAccess(gomock.Any(), rec.ID, gomock.Any()).Return(false, nil),
		store.EXPECT().Get(gomock.Any(), rec.ID).Return(&after, nil),
	)

	_, err := svc.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrLetterAccessExhausted)
}
