package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		present []string
		absent  []string
	}{
		{
			name:    "workbook and annotation",
			ctx:     WithAnnotationID(WithWorkbookID(context.Background(), "wb-1"), "rng-1"),
			present: []string{"workbook_id", "annotation_id"},
		},
		{
			name:    "workbook only",
			ctx:     WithWorkbookID(context.Background(), "wb-1"),
			present: []string{"workbook_id"},
			absent:  []string{"annotation_id"},
		},
		{
			name:   "background",
			ctx:    context.Background(),
			absent: []string{"workbook_id", "annotation_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, key := range tt.present {
				assert.Contains(t, entry, key)
			}
			for _, key := range tt.absent {
				assert.NotContains(t, entry, key)
			}
		})
	}
}
