package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/Totarae/ArrearsLetters/internal/storage/mocks"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func newLinkService(store storage.LinkStore) *LinkService {
	return NewLinkService(store, util.NewIDGenerator(""), zap.NewNop(), "https://s.example.mu", 0)
}

func TestLinkService_MintDistinct(t *testing.T) {
	ctx := context.Background()
	svc := newLinkService(storage.NewMemoryLinkStore())

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id, err := svc.Mint(ctx, "https://arrears.example.mu/letter/0123456789abcdef", "run")
		require.NoError(t, err)
		assert.Len(t, id, 6)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 500)
}

func TestLinkService_MintFallsBackToLongID(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryLinkStore()
	svc := newLinkService(store)
	svc.IDs.Rand = zeroReader{}

	first, err := svc.Mint(ctx, "https://x.mu/a", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaa", first)

	second, err := svc.Mint(ctx, "https://x.mu/b", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa", second)
}

func TestLinkService_MintSetsExpiry(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryLinkStore()
	svc := newLinkService(store)
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	id, err := svc.Mint(ctx, "https://x.mu/a", "run")
	require.NoError(t, err)

	link, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*24*time.Hour), link.Expires)
	assert.Equal(t, 0, link.Clicks)
	assert.True(t, link.Active)
	assert.Equal(t, "https://s.example.mu/"+id, svc.ShortURL(id))
}

func TestLinkService_MintRejectsBadTarget(t *testing.T) {
	svc := newLinkService(storage.NewMemoryLinkStore())
	_, err := svc.Mint(context.Background(), "javascript:alert(1)", "")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestLinkService_Resolve(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryLinkStore()
	svc := newLinkService(store)
	now := time.Now()
	svc.Now = func() time.Time { return now }

	id, err := svc.Mint(ctx, "https://x.mu/a", "")
	require.NoError(t, err)

	target, err := svc.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://x.mu/a", target)

	link, _ := store.Get(ctx, id)
	assert.Equal(t, 1, link.Clicks)

	_, err = svc.Resolve(ctx, "zzzzzz")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestLinkService_ResolveExpired(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryLinkStore()
	past := time.Now().Add(-31 * 24 * time.Hour)
	require.NoError(t, store.Save(ctx, &model.ShortLink{
		ID: "old001", URL: "https://x.mu", Created: past, Expires: past.Add(30 * 24 * time.Hour), Active: true,
	}))

	svc := newLinkService(store)
	_, err := svc.Resolve(ctx, "old001")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	ok, err := store.Has(ctx, "old001")
	require.NoError(t, err)
	assert.True(t, ok, "expired entries stay in storage")
}

func TestLinkService_MintStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLinkStore(ctrl)
	svc := newLinkService(store)

	store.EXPECT().Has(gomock.Any(), gomock.Any()).Return(false, errors.New("disk full"))

	_, err := svc.Mint(context.Background(), "https://x.mu", "")
	assert.ErrorContains(t, err, "disk full")
}

func TestLinkService_MintRetriesOnRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLinkStore(ctrl)
	svc := newLinkService(store)

	store.EXPECT().Has(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	gomock.InOrder(
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicate),
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
	)

	id, err := svc.Mint(context.Background(), "https://x.mu", "")
	require.NoError(t, err)
	assert.Len(t, id, 6)
}

func TestLinkService_ResolveCountFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLinkStore(ctrl)
	svc := newLinkService(store)

	store.EXPECT().Get(gomock.Any(), "abc123").Return(&model.ShortLink{
		ID: "abc123", URL: "https://x.mu", Expires: time.Now().Add(time.Hour), Active: true,
	}, nil)
	store.EXPECT().IncrementClicks(gomock.Any(), "abc123").Return(errors.New("locked"))

	target, err := svc.Resolve(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://x.mu", target)
}
