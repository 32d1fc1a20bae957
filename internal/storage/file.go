package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Totarae/ArrearsLetters/internal/lock"
	"github.com/Totarae/ArrearsLetters/internal/model"
)

// isoLayouts форматы времени, встречающиеся в уже выгруженных файлах:
// RFC 3339 и ISO без часового пояса.
var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"}

// fileTime сериализуется в RFC 3339 и читает оба формата.
type fileTime time.Time

func (t fileTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

func (t *fileTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range isoLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = fileTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unsupported time %q", s)
}

// writeFileAtomic записывает файл через временный файл и rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type linkEntry struct {
	URL     string   `json:"url"`
	Scope   string   `json:"scope,omitempty"`
	Created fileTime `json:"created"`
	Expires fileTime `json:"expires"`
	Clicks  int      `json:"clicks"`
	Active  bool     `json:"active"`
}

// FileLinkStore хранит реестр ссылок в одном JSON-файле. Файл читается и
// перезаписывается целиком на каждой операции, так что сервер видит ссылки,
// выпущенные пакетной командой. Каждая операция держит flock на <file>.lock:
// сервер и пакетная команда работают с одним файлом.
type FileLinkStore struct {
	mutex sync.Mutex
	file  string
}

// NewFileLinkStore initializes a new FileLinkStore
func NewFileLinkStore(file string) *FileLinkStore {
	return &FileLinkStore{file: file}
}

// load загружает реестр из файла; отсутствующий файл означает пустой реестр
func (s *FileLinkStore) load() (map[string]linkEntry, error) {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]linkEntry), nil // Файл ещё не создан, это не ошибка
		}
		return nil, err
	}
	entries := make(map[string]linkEntry)
	if len(strings.TrimSpace(string(data))) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.file, err)
	}
	return entries, nil
}

// withLock сериализует операции над файлом внутри процесса и между процессами.
func (s *FileLinkStore) withLock(exclusive bool, fn func() error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	release, err := lock.LockFile(s.file+".lock", exclusive)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (s *FileLinkStore) flush(entries map[string]linkEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.file, data)
}

func (s *FileLinkStore) Has(_ context.Context, id string) (bool, error) {
	var ok bool
	err := s.withLock(false, func() error {
		entries, err := s.load()
		if err != nil {
			return err
		}
		_, ok = entries[id]
		return nil
	})
	return ok, err
}

func (s *FileLinkStore) Save(_ context.Context, link *model.ShortLink) error {
	return s.withLock(true, func() error {
		entries, err := s.load()
		if err != nil {
			return err
		}
		if _, ok := entries[link.ID]; ok {
			return ErrDuplicate
		}
		entries[link.ID] = linkEntry{
			URL:     link.URL,
			Scope:   link.Scope,
			Created: fileTime(link.Created),
			Expires: fileTime(link.Expires),
			Clicks:  link.Clicks,
			Active:  link.Active,
		}
		return s.flush(entries)
	})
}

func (s *FileLinkStore) Get(_ context.Context, id string) (*model.ShortLink, error) {
	var link *model.ShortLink
	err := s.withLock(false, func() error {
		entries, err := s.load()
		if err != nil {
			return err
		}
		e, ok := entries[id]
		if !ok {
			return nil
		}
		link = &model.ShortLink{
			ID:      id,
			URL:     e.URL,
			Scope:   e.Scope,
			Created: time.Time(e.Created),
			Expires: time.Time(e.Expires),
			Clicks:  e.Clicks,
			Active:  e.Active,
		}
		return nil
	})
	return link, err
}

func (s *FileLinkStore) IncrementClicks(_ context.Context, id string) error {
	return s.withLock(true, func() error {
		entries, err := s.load()
		if err != nil {
			return err
		}
		e, ok := entries[id]
		if !ok {
			return nil
		}
		e.Clicks++
		entries[id] = e
		return s.flush(entries)
	})
}

func (s *FileLinkStore) DeleteScope(_ context.Context, scope string) (int, error) {
	n := 0
	err := s.withLock(true, func() error {
		entries, err := s.load()
		if err != nil {
			return err
		}
		for id, e := range entries {
			if e.Scope == scope {
				delete(entries, id)
				n++
			}
		}
		if n == 0 {
			return nil
		}
		return s.flush(entries)
	})
	return n, err
}

var letterIDPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// ErrInvalidScope возвращается для имени области, которое нельзя использовать как каталог.
var ErrInvalidScope = errors.New("invalid scope name")

// ValidScope проверяет, что область является одним сегментом пути.
func ValidScope(scope string) error {
	if scope == "" || scope == "." || scope == ".." || filepath.Base(scope) != scope || strings.ContainsAny(scope, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return nil
}

type letterFile struct {
	model.LetterRecord
	CreatedAt fileTime `json:"createdAt"`
	ExpiresAt fileTime `json:"expiresAt"`
}

// FileLetterStore хранит каждое письмо отдельным файлом <root>/<scope>/<id>.json.
// Изменения идут под flock на <root>/.letters.lock.
type FileLetterStore struct {
	mutex sync.Mutex
	root  string
}

// NewFileLetterStore initializes a new FileLetterStore
func NewFileLetterStore(root string) *FileLetterStore {
	return &FileLetterStore{root: root}
}

// Root возвращает корневой каталог писем.
func (s *FileLetterStore) Root() string {
	return s.root
}

// lettersLockName файл межпроцессной блокировки в корне писем.
const lettersLockName = ".letters.lock"

func (s *FileLetterStore) withLock(exclusive bool, fn func() error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	release, err := lock.LockFile(filepath.Join(s.root, lettersLockName), exclusive)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// locate ищет файл письма во всех областях.
func (s *FileLetterStore) locate(id string) (string, error) {
	if !letterIDPattern.MatchString(id) {
		return "", nil
	}
	matches, err := filepath.Glob(filepath.Join(s.root, "*", id+".json"))
	if err != nil || len(matches) == 0 {
		return "", err
	}
	sort.Strings(matches)
	return matches[0], nil
}

func (s *FileLetterStore) read(path string) (*model.LetterRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f letterFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	rec := f.LetterRecord
	rec.CreatedAt = time.Time(f.CreatedAt)
	rec.ExpiresAt = time.Time(f.ExpiresAt)
	return &rec, nil
}

func (s *FileLetterStore) write(path string, rec *model.LetterRecord) error {
	data, err := json.MarshalIndent(letterFile{
		LetterRecord: *rec,
		CreatedAt:    fileTime(rec.CreatedAt),
		ExpiresAt:    fileTime(rec.ExpiresAt),
	}, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func (s *FileLetterStore) Has(_ context.Context, id string) (bool, error) {
	var path string
	err := s.withLock(false, func() (err error) {
		path, err = s.locate(id)
		return err
	})
	return path != "", err
}

func (s *FileLetterStore) Save(_ context.Context, rec *model.LetterRecord) error {
	if err := ValidScope(rec.Scope); err != nil {
		return err
	}
	if !letterIDPattern.MatchString(rec.ID) {
		return fmt.Errorf("invalid letter id %q", rec.ID)
	}
	return s.withLock(true, func() error {
		existing, err := s.locate(rec.ID)
		if err != nil {
			return err
		}
		if existing != "" {
			return ErrDuplicate
		}
		return s.write(filepath.Join(s.root, rec.Scope, rec.ID+".json"), rec)
	})
}

func (s *FileLetterStore) Get(_ context.Context, id string) (*model.LetterRecord, error) {
	var rec *model.LetterRecord
	err := s.withLock(false, func() error {
		path, err := s.locate(id)
		if err != nil || path == "" {
			return err
		}
		rec, err = s.read(path)
		return err
	})
	return rec, err
}

func (s *FileLetterStore) ConsumeAccess(_ context.Context, id string, now time.Time) (bool, error) {
	consumed := false
	err := s.withLock(true, func() error {
		path, err := s.locate(id)
		if err != nil || path == "" {
			return err
		}
		rec, err := s.read(path)
		if err != nil {
			return err
		}
		if rec.Expired(now) || rec.Exhausted() {
			return nil
		}
		rec.AccessCount++
		if err := s.write(path, rec); err != nil {
			return err
		}
		consumed = true
		return nil
	})
	return consumed, err
}

// DeleteScope удаляет каталог области целиком, включая выгрузки SMS.
func (s *FileLetterStore) DeleteScope(_ context.Context, scope string) (int, error) {
	if err := ValidScope(scope); err != nil {
		return 0, err
	}
	n := 0
	err := s.withLock(true, func() error {
		dir := filepath.Join(s.root, scope)
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return err
		}
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		n = len(matches)
		return nil
	})
	return n, err
}
