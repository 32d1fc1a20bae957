package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

func init() {
	// pdfcpu не должен создавать каталог конфигурации в $HOME
	api.DisableConfigDir()
}

// Protect шифрует документ AES-256; пароль пользователя и владельца совпадают.
func Protect(doc []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("empty password")
	}
	conf := model.NewAESConfiguration(password, password, 256)
	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(doc), &out, conf); err != nil {
		return nil, fmt.Errorf("encrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}

// WriteOutputs writes the plain document to unprotectedPath and an
// encrypted copy to protectedPath. Without a password, or if encryption
// fails, the plain document is copied instead and encrypted is false.
// On a write error both files are removed.
func WriteOutputs(doc []byte, unprotectedPath, protectedPath, password string, logger *zap.Logger) (encrypted bool, err error) {
	defer func() {
		if err != nil {
			os.Remove(unprotectedPath)
			os.Remove(protectedPath)
		}
	}()

	if err = writeFile(unprotectedPath, doc); err != nil {
		return false, err
	}

	out := doc
	if password != "" {
		enc, encErr := Protect(doc, password)
		if encErr != nil {
			logger.Warn("Encryption failed, copying unprotected letter",
				zap.String("file", filepath.Base(protectedPath)), zap.Error(encErr))
		} else {
			out = enc
			encrypted = true
		}
	}
	if err = writeFile(protectedPath, out); err != nil {
		return false, err
	}
	return encrypted, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
