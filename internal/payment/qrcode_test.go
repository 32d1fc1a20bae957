package payment

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteQRCode(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteQRCode("00020101021226580014mu.zwennpay", dir, "qr_00520/0001149")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "qr_00520_0001149.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, b.Dx(), b.Dy())
	assert.Zero(t, b.Dx()%QRScale)
	// рамка остаётся белой
	r, g, bl, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&bl)
	// левый верхний угол поискового узора чёрный
	r, _, _, _ = img.At(QRBorder*QRScale, QRBorder*QRScale).RGBA()
	assert.Zero(t, r)
}
