package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies workbook_id and annotation_id from an event's context
// into the event.
type ContextHook struct{}

func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetWorkbookID(ctx); id != "" {
		e.Str("workbook_id", id)
	}
	if id := GetAnnotationID(ctx); id != "" {
		e.Str("annotation_id", id)
	}
}
