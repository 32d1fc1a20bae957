package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Каталоги выходных писем.
const (
	ProtectedDir   = "protected"
	UnprotectedDir = "unprotected"
)

// PreferUnprotected подменяет файл из protected/ его копией из unprotected/,
// если она существует. Зашифрованные файлы pdfcpu без пароля не объединит.
func PreferUnprotected(path string) string {
	dir, name := filepath.Split(path)
	dir = filepath.Clean(dir)
	if filepath.Base(dir) != ProtectedDir {
		return path
	}
	alt := filepath.Join(filepath.Dir(dir), UnprotectedDir, name)
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return path
}

// CollectPDFs возвращает отсортированный список PDF в каталоге.
func CollectPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Combine merges files into out in the given order.
func Combine(files []string, out string) error {
	if len(files) == 0 {
		return errors.New("no pdf files to combine")
	}
	inputs := make([]string, len(files))
	for i, f := range files {
		inputs[i] = PreferUnprotected(f)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := api.MergeCreateFile(inputs, out, false, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("merge pdf: %w", err)
	}
	return nil
}
