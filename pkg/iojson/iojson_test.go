package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string   `json:"name" yaml:"name"`
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

func TestWriteWith_DoesNotEscapeHTML(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, payload{Name: "<b> & c"}))

	assert.Contains(t, out.String(), `"name": "<b> & c"`)
	assert.Empty(t, errOut.String())
}

func TestWriteWith_EncodeFailureGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))

	assert.Empty(t, out.String())

	var doc Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &doc))
	assert.Equal(t, "error marshaling output", doc.Message)
	assert.Contains(t, doc.Data, "json_error")
}

func TestMarshalError(t *testing.T) {
	var doc Error
	require.NoError(t, json.Unmarshal([]byte(MarshalError("boom", map[string]any{"batch_id": "abc"})), &doc))
	assert.Equal(t, "boom", doc.Message)
	assert.Equal(t, "abc", doc.Data["batch_id"])

	assert.NotContains(t, MarshalError("boom", nil), "data")
}

func TestFileReader(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name":"json","files":["a.pdf"]}`), 0o600))

	yamlPath := filepath.Join(dir, "in.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: yaml\nfiles:\n  - b.pdf\n"), 0o600))

	tests := []struct {
		name string
		fr   FileReader[payload]
		want payload
		err  string
	}{
		{name: "json file", fr: FileReader[payload]{fileFlagValue: jsonPath}, want: payload{Name: "json", Files: []string{"a.pdf"}}},
		{name: "yaml file", fr: FileReader[payload]{fileFlagValue: yamlPath}, want: payload{Name: "yaml", Files: []string{"b.pdf"}}},
		{name: "stdin dash", fr: FileReader[payload]{fileFlagValue: "-", stdin: strings.NewReader(`{"name":"stdin"}`)}, want: payload{Name: "stdin"}},
		{name: "unknown field", fr: FileReader[payload]{stdin: strings.NewReader(`{"nmae":"typo"}`)}, err: "decode JSON"},
		{name: "missing file", fr: FileReader[payload]{fileFlagValue: filepath.Join(dir, "nope.json")}, err: "open file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fr.Read()
			if tt.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
