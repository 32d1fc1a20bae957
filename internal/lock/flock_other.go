//go:build !unix

package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const fileLockWait = 30 * time.Second

// LockFile без flock: эксклюзивный файл-маркер path+".excl", ожидание до fileLockWait.
// Чтение и запись блокируются одинаково.
func LockFile(path string, _ bool) (release func(), err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	marker := path + ".excl"
	deadline := time.Now().Add(fileLockWait)
	for {
		f, err := os.OpenFile(marker, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(marker) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, marker)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
