package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Totarae/ArrearsLetters/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--operator", "ops-1")
	require.NoError(t, err)

	var token string
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, "token: "); ok {
			token = v
		}
	}
	id, ok := auth.New("s3cret").Verify(token)
	assert.True(t, ok)
	assert.Equal(t, "ops-1", id)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	_, err := execute(t, "token")
	assert.Error(t, err)
}

func TestGenerateRejectsBadFolder(t *testing.T) {
	_, err := execute(t, "generate", "--input", "x.xlsx", "--folder", "../up")
	assert.Error(t, err)
}

func TestSMSLinksNeedsGeneratedLetters(t *testing.T) {
	_, err := execute(t, "sms-links", "--folder", "august")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run generate first")
}

func TestFindSource(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "august")
	require.NoError(t, os.MkdirAll(folder, 0o755))

	_, err := findSource("", dir, "august")
	assert.Error(t, err)

	f := excelize.NewFile()
	other := filepath.Join(folder, "upload.xlsx")
	require.NoError(t, f.SaveAs(other))
	got, err := findSource("", dir, "august")
	require.NoError(t, err)
	assert.Equal(t, other, got)

	kept := filepath.Join(folder, "august_source.xlsx")
	require.NoError(t, f.SaveAs(kept))
	got, err = findSource("", dir, "august")
	require.NoError(t, err)
	assert.Equal(t, kept, got)

	got, err = findSource("explicit.xlsx", dir, "august")
	require.NoError(t, err)
	assert.Equal(t, "explicit.xlsx", got)
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letters.log")
	logger := newLogger(path)
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
