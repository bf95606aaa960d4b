package sheetmark

import (
	"context"
	"errors"

	"github.com/colonyops/sheetmark/internal/core/annotation"
)

// ErrNoService is returned by annotation mutations when no evidence service
// is configured.
var ErrNoService = errors.New("no evidence service configured")

// offlineAPI backs the annotation store for local workbooks viewed without
// an evidence service. Lists are always empty and every mutation fails.
type offlineAPI struct{}

var _ annotation.API = offlineAPI{}

func (offlineAPI) ListMappings(context.Context, string) ([]annotation.RangeEvidence, error) {
	return nil, nil
}

func (offlineAPI) ListReferences(context.Context, string) ([]annotation.RangeEvidence, error) {
	return nil, nil
}

func (offlineAPI) CreateRangeEvidence(context.Context, string, annotation.CreateRequest) (annotation.RangeEvidence, error) {
	return annotation.RangeEvidence{}, ErrNoService
}

func (offlineAPI) UpdateRangeEvidence(context.Context, string, string, annotation.Patch) (annotation.RangeEvidence, error) {
	return annotation.RangeEvidence{}, ErrNoService
}

func (offlineAPI) DeleteRangeEvidence(context.Context, string, string) error {
	return ErrNoService
}

func (offlineAPI) GetRangeEvidence(context.Context, string, string) (annotation.RangeEvidence, error) {
	return annotation.RangeEvidence{}, annotation.ErrNotFound
}

func (offlineAPI) AttachEvidence(context.Context, string, string, []string) error {
	return ErrNoService
}
