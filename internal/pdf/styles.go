// Package pdf renders arrears notices and handles encryption and merging.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
)

// Styles задаёт шрифты и размеры вёрстки письма.
type Styles struct {
	// FontDir каталог с TTF-шрифтами; пусто означает встроенный Helvetica.
	FontDir     string
	FontFamily  string
	RegularFont string
	BoldFont    string

	Letterhead []string
	Footer     string

	TitleSize float64
	BodySize  float64
	SmallSize float64
	Line      float64
	Margin    float64
	QRSize    float64
}

// DefaultStyles возвращает вёрстку A4 по умолчанию.
func DefaultStyles() Styles {
	return Styles{
		FontFamily:  "Helvetica",
		RegularFont: "DejaVuSans.ttf",
		BoldFont:    "DejaVuSans-Bold.ttf",
		Letterhead:  []string{"NIC", "National Insurance Company Ltd"},
		Footer:      "This is a computer generated letter and does not require a signature.",
		TitleSize:   14,
		BodySize:    10,
		SmallSize:   8,
		Line:        5,
		Margin:      20,
		QRSize:      38,
	}
}

// check проверяет, что файлы шрифтов на месте.
func (s Styles) check() error {
	if s.FontDir == "" {
		return nil
	}
	for _, name := range []string{s.RegularFont, s.BoldFont} {
		path := filepath.Join(s.FontDir, name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("font %s: %w", path, err)
		}
	}
	return nil
}
