package lock

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLocker(t *testing.T) {
	ctx := context.Background()
	l := NewFileLocker(t.TempDir())

	release, err := l.Acquire(ctx, "sms-links")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "sms-links")
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, "generate")
	require.NoError(t, err)
	other()

	release()
	again, err := l.Acquire(ctx, "sms-links")
	require.NoError(t, err)
	again()
}

func TestFileLocker_StaleLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".sms-links.lock")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	old := time.Now().Add(-7 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	release, err := NewFileLocker(dir).Acquire(context.Background(), "sms-links")
	require.NoError(t, err)
	release()
	assert.NoFileExists(t, path)
}
