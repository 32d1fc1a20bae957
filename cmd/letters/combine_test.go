package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/pdf"
)

func writeLetters(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	r, err := pdf.NewRenderer(pdf.DefaultStyles())
	require.NoError(t, err)

	var paths []string
	for _, name := range names {
		doc, err := r.Render(model.LetterContent{
			CustomerName: "Mr Jean Dupont",
			PolicyNo:     "00520/0001149",
			Salutation:   "Dear Mr Dupont,",
		}, "")
		require.NoError(t, err)
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, doc, 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestCombineFilesJSON(t *testing.T) {
	dir := t.TempDir()
	paths := writeLetters(t, dir, "001_a.pdf", "002_b.pdf")
	out := filepath.Join(dir, "subset.pdf")

	_, err := execute(t, "combine", "--files", `["`+paths[0]+`","`+paths[1]+`"]`, "--output", out)
	require.NoError(t, err)

	n, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCombineFilesRepeated(t *testing.T) {
	dir := t.TempDir()
	paths := writeLetters(t, dir, "001_a.pdf")
	out := filepath.Join(dir, "one.pdf")

	_, err := execute(t, "combine", "--files", paths[0], "--files", filepath.Join(dir, "gone.pdf"), "-o", out)
	require.NoError(t, err)

	n, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCombineFilesFromFile(t *testing.T) {
	dir := t.TempDir()
	paths := writeLetters(t, dir, "001_a.pdf", "002_b.pdf")
	list := filepath.Join(dir, "list.txt")
	content := strings.Join([]string{"# chosen letters", paths[1], "", filepath.Join(dir, "missing.pdf"), paths[0]}, "\n")
	require.NoError(t, os.WriteFile(list, []byte(content), 0o644))
	out := filepath.Join(dir, "from-list.pdf")

	_, err := execute(t, "combine", "--files-from-file", list, "--output", out)
	require.NoError(t, err)

	n, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCombineNoValidInputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "none.pdf")

	_, err := execute(t, "combine", "--files", filepath.Join(dir, "missing.pdf"), "--output", out)
	assert.ErrorIs(t, err, errNoInputs)
	assert.NoFileExists(t, out)
}

func TestCombineInputFlagsExclusive(t *testing.T) {
	_, err := execute(t, "combine", "--folder", "august", "--files", "a.pdf")
	assert.Error(t, err)

	_, err = execute(t, "combine")
	assert.Error(t, err)

	_, err = execute(t, "combine", "--files", "not json]")
	assert.Error(t, err)
}

func TestParseFileArgs(t *testing.T) {
	got, err := parseFileArgs([]string{`["a.pdf","b.pdf"]`, " c.pdf ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, got)

	_, err = parseFileArgs([]string{`["a.pdf"`})
	assert.Error(t, err)
}
