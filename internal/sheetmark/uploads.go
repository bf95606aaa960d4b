package sheetmark

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/sheetmark/internal/core/annotation"
)

// ExpandUploads resolves file paths and doublestar glob patterns into
// uploads. Every pattern must match at least one regular file; duplicates
// are dropped.
func ExpandUploads(patterns []string) ([]annotation.Upload, error) {
	seen := make(map[string]bool)
	var uploads []annotation.Upload

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}

		for _, path := range matches {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, err
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			uploads = append(uploads, fileUpload(abs))
		}
	}

	return uploads, nil
}

func fileUpload(path string) annotation.Upload {
	return annotation.Upload{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}
