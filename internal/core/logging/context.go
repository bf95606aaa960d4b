package logging

import "context"

type contextKey string

const (
	workbookIDKey   contextKey = "workbook_id"
	annotationIDKey contextKey = "annotation_id"
)

// WithWorkbookID tags the context with the workbook being worked on.
func WithWorkbookID(ctx context.Context, workbookID string) context.Context {
	return context.WithValue(ctx, workbookIDKey, workbookID)
}

// WithAnnotationID tags the context with the range evidence being mutated.
func WithAnnotationID(ctx context.Context, annotationID string) context.Context {
	return context.WithValue(ctx, annotationIDKey, annotationID)
}

// GetWorkbookID returns the workbook ID or "" if the context has none.
func GetWorkbookID(ctx context.Context) string {
	return stringValue(ctx, workbookIDKey)
}

// GetAnnotationID returns the annotation ID or "" if the context has none.
func GetAnnotationID(ctx context.Context) string {
	return stringValue(ctx, annotationIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
