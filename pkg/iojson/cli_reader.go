package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// FileReader decodes a T from the file named by its flag, or from stdin when
// the flag is empty or "-". Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON.
type FileReader[T any] struct {
	fileFlagValue string
	stdin         io.Reader
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON or YAML file (reads JSON from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

func (fr *FileReader[T]) Read() (T, error) {
	var input T

	path := fr.fileFlagValue
	if path == "" || path == "-" {
		reader := fr.stdin
		if reader == nil {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
			}
			reader = os.Stdin
		}
		return decodeJSON[T](reader)
	}

	f, err := os.Open(path)
	if err != nil {
		return input, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&input); err != nil {
			return input, fmt.Errorf("decode YAML: %w", err)
		}
		return input, nil
	default:
		return decodeJSON[T](f)
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var input T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}
