// Package lock сериализует пакетные запуски, которые перезаписывают общий реестр ссылок.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLocked блокировка занята другим процессом.
var ErrLocked = errors.New("job is already running")

// Locker выдаёт эксклюзивную блокировку по ключу.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

func token() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// RedisLocker блокировка SET NX с TTL.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

// NewRedisLocker создаёт блокировку поверх клиента go-redis.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisLocker{Client: client, TTL: ttl, Prefix: "arrears:lock:"}
}

// снимаем блокировку, только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	name := l.Prefix + key
	tok := token()
	ok, err := l.Client.SetNX(ctx, name, tok, l.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, key)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.Client, []string{name}, tok).Err()
	}, nil
}

// FileLocker блокировка файлом, созданным с O_EXCL.
type FileLocker struct {
	Dir string
	// Stale блокировки старше этого срока считаются брошенными.
	Stale time.Duration
}

// NewFileLocker создаёт файловую блокировку в каталоге dir.
func NewFileLocker(dir string) *FileLocker {
	return &FileLocker{Dir: dir, Stale: 6 * time.Hour}
}

func (l *FileLocker) Acquire(_ context.Context, key string) (func(), error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(l.Dir, "."+key+".lock")

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().Format(time.RFC3339))
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		info, statErr := os.Stat(path)
		if statErr != nil || l.Stale <= 0 || time.Since(info.ModTime()) < l.Stale {
			break
		}
		os.Remove(path)
	}
	return nil, fmt.Errorf("%w: %s (lock file %s)", ErrLocked, key, path)
}
