package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestIDGenerator_Distinct(t *testing.T) {
	gen := NewIDGenerator("")
	seen := make(map[string]struct{})

	for i := 0; i < 2000; i++ {
		id, widened, err := gen.Next(func(s string) bool {
			_, ok := seen[s]
			return ok
		})
		require.NoError(t, err)
		assert.False(t, widened)
		assert.Len(t, id, 6)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(DefaultAlphabet, r))
		}
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 2000)
}

func TestIDGenerator_FallbackAfterRetries(t *testing.T) {
	gen := NewIDGenerator("")
	gen.Rand = zeroReader{}

	calls := 0
	id, widened, err := gen.Next(func(s string) bool {
		calls++
		return len(s) == 6
	})
	require.NoError(t, err)
	assert.True(t, widened)
	assert.Equal(t, "aaaaaaaa", id)
	assert.Equal(t, gen.Retries+2, calls)
}

func TestIDGenerator_Exhausted(t *testing.T) {
	gen := NewIDGenerator("")
	gen.Rand = zeroReader{}

	_, widened, err := gen.Next(func(string) bool { return true })
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
	assert.True(t, widened)
}

func TestIDGenerator_RejectsBiasedBytes(t *testing.T) {
	gen := NewIDGenerator("ab")
	gen.Rand = bytes.NewReader([]byte{255, 1, 2, 3})

	id, err := gen.Draw(3)
	require.NoError(t, err)
	// 256 % 2 == 0, nothing is rejected
	assert.Equal(t, "bba", id)

	gen = NewIDGenerator("abc")
	gen.Rand = bytes.NewReader([]byte{255, 0, 1, 254, 2, 0, 0})
	id, err = gen.Draw(3)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestIDGenerator_InvalidAlphabet(t *testing.T) {
	gen := NewIDGenerator("a")
	_, err := gen.Draw(6)
	assert.Error(t, err)
}
