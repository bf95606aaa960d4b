package sheetmark

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "q3", "soc2"), 0o755))
	for _, name := range []string{"q3/policy.pdf", "q3/soc2/report.pdf", "q3/notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}

	uploads, err := ExpandUploads([]string{
		filepath.Join(dir, "**", "*.pdf"),
		filepath.Join(dir, "q3", "policy.pdf"),
	})
	require.NoError(t, err)

	names := make([]string, 0, len(uploads))
	for _, up := range uploads {
		names = append(names, up.Name)
	}
	assert.ElementsMatch(t, []string{"policy.pdf", "report.pdf"}, names)

	rc, err := uploads[0].Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(body), ".pdf")
}

func TestExpandUploads_NoMatch(t *testing.T) {
	_, err := ExpandUploads([]string{filepath.Join(t.TempDir(), "*.xlsx")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")
}
