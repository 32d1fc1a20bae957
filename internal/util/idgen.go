package util

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Алфавиты коротких идентификаторов.
const (
	DefaultAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	UnambiguousAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// ErrIDSpaceExhausted возвращается, когда не удалось подобрать свободный идентификатор.
var ErrIDSpaceExhausted = errors.New("short id space exhausted")

// IDGenerator draws random identifiers and checks each candidate against
// the caller's key set.
type IDGenerator struct {
	Alphabet       string
	Length         int
	FallbackLength int
	Retries        int
	Rand           io.Reader
}

// NewIDGenerator создаёт генератор с длиной 6, запасной длиной 8 и 10 повторами.
func NewIDGenerator(alphabet string) *IDGenerator {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	return &IDGenerator{
		Alphabet:       alphabet,
		Length:         6,
		FallbackLength: 8,
		Retries:        10,
		Rand:           rand.Reader,
	}
}

// Draw возвращает случайный идентификатор длины n без проверки коллизий.
func (g *IDGenerator) Draw(n int) (string, error) {
	size := len(g.Alphabet)
	if size < 2 || size > 256 {
		return "", fmt.Errorf("invalid alphabet size %d", size)
	}
	// отбрасываем байты за последней полной группой, чтобы не смещать распределение
	limit := 256 - 256%size

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(g.Rand, buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, g.Alphabet[int(b)%size])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// Next returns an identifier for which exists reports false. After Retries
// collisions at the primary length it switches to FallbackLength and
// reports widened=true.
func (g *IDGenerator) Next(exists func(string) bool) (id string, widened bool, err error) {
	for _, length := range []int{g.Length, g.FallbackLength} {
		for attempt := 0; attempt <= g.Retries; attempt++ {
			id, err = g.Draw(length)
			if err != nil {
				return "", widened, err
			}
			if !exists(id) {
				return id, widened, nil
			}
		}
		widened = true
	}
	return "", true, ErrIDSpaceExhausted
}
