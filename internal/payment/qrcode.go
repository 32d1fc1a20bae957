package payment

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Totarae/ArrearsLetters/internal/util"
)

// Параметры растеризации кода: размер модуля в пикселях и ширина рамки в модулях.
const (
	QRScale  = 8
	QRBorder = 2
)

// EncodeQR строит изображение кода с низким уровнем коррекции ошибок.
func EncodeQR(payload string) (image.Image, error) {
	q, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()

	modules := len(bitmap) + 2*QRBorder
	side := modules * QRScale
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{color.White, color.Black})
	for y, row := range bitmap {
		for x, set := range row {
			if !set {
				continue
			}
			x0 := (x + QRBorder) * QRScale
			y0 := (y + QRBorder) * QRScale
			for dy := 0; dy < QRScale; dy++ {
				for dx := 0; dx < QRScale; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}
	return img, nil
}

// WriteQRCode writes the code as <dir>/<name>.png and returns the path.
// The caller removes the file once it is no longer needed.
func WriteQRCode(payload, dir, name string) (string, error) {
	img, err := EncodeQR(payload)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, util.SanitizeFilename(name)+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write qr png: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
