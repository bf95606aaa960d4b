// Package annotation holds range evidence (mapping and reference annotations)
// for one workbook and answers which annotation covers a cell.
package annotation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/colonyops/sheetmark/internal/core/cellref"
)

var (
	// ErrValidation is returned when a mutation is missing required input,
	// such as an active selection or a classification id for file uploads.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an annotation id is unknown.
	ErrNotFound = errors.New("annotation not found")
)

// Kind is the type of a range annotation.
type Kind string

const (
	KindMapping   Kind = "mapping"
	KindReference Kind = "reference"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindMapping || k == KindReference
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q (want mapping or reference)", ErrValidation, s)
	}
	return k, nil
}

// DefaultMappingColor is used for mappings without a stored color.
const DefaultMappingColor = "#FFEB3B"

// FileRef is an uploaded evidence file.
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

// EvidenceFileRef links a reference annotation to an uploaded file.
type EvidenceFileRef struct {
	EvidenceID string  `json:"evidenceId"`
	File       FileRef `json:"file"`
}

// RangeEvidence is a persisted annotation. Coordinates are zero-indexed and
// stored normalized.
type RangeEvidence struct {
	ID                  string            `json:"id"`
	WorkbookID          string            `json:"workbookId"`
	Type                Kind              `json:"type"`
	Sheet               string            `json:"sheet"`
	StartRow            int               `json:"startRow"`
	StartCol            int               `json:"startCol"`
	EndRow              int               `json:"endRow"`
	EndCol              int               `json:"endCol"`
	Color               *string           `json:"color"`
	Notes               *string           `json:"notes"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	LinkedEvidenceFiles []EvidenceFileRef `json:"linkedEvidenceFiles"`
}

// Range returns the covered rectangle, normalized even if the server was not.
func (r RangeEvidence) Range() cellref.Range {
	return cellref.Normalize(
		cellref.Cell{Row: r.StartRow, Col: r.StartCol},
		cellref.Cell{Row: r.EndRow, Col: r.EndCol},
	)
}

// Address formats the annotation's range, e.g. "Sheet1!B2:D4".
func (r RangeEvidence) Address() string {
	return cellref.FormatAddress(r.Sheet, r.Range())
}

// ColorOr returns the stored color or fallback.
func (r RangeEvidence) ColorOr(fallback string) string {
	if r.Color == nil || *r.Color == "" {
		return fallback
	}
	return *r.Color
}

// NotesText returns the notes or "".
func (r RangeEvidence) NotesText() string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}

// CreateRequest is the body for creating range evidence.
type CreateRequest struct {
	Type     Kind    `json:"type"`
	Color    *string `json:"color,omitempty"`
	Sheet    string  `json:"sheet"`
	StartRow int     `json:"startRow"`
	StartCol int     `json:"startCol"`
	EndRow   int     `json:"endRow"`
	EndCol   int     `json:"endCol"`
	Notes    *string `json:"notes,omitempty"`
}

// Patch is a partial update. Ranges cannot be changed; delete and recreate.
type Patch struct {
	Color *string `json:"color,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Color == nil && p.Notes == nil
}

// API is the remote evidence service.
type API interface {
	ListMappings(ctx context.Context, workbookID string) ([]RangeEvidence, error)
	ListReferences(ctx context.Context, workbookID string) ([]RangeEvidence, error)
	CreateRangeEvidence(ctx context.Context, workbookID string, req CreateRequest) (RangeEvidence, error)
	UpdateRangeEvidence(ctx context.Context, workbookID, id string, patch Patch) (RangeEvidence, error)
	DeleteRangeEvidence(ctx context.Context, workbookID, id string) error
	GetRangeEvidence(ctx context.Context, workbookID, id string) (RangeEvidence, error)
	AttachEvidence(ctx context.Context, workbookID, id string, evidenceIDs []string) error
}

// EvidenceRecord is the input for registering an uploaded file as evidence.
type EvidenceRecord struct {
	FileID           string `json:"fileId"`
	ClassificationID string `json:"classificationId"`
	Name             string `json:"name"`
}

// DocumentLibrary uploads files and registers them as evidence records.
type DocumentLibrary interface {
	UploadFile(ctx context.Context, folderID, name string, body io.Reader) (fileID string, err error)
	CreateEvidence(ctx context.Context, rec EvidenceRecord) (evidenceID string, err error)
}

// Upload is a file to attach to a new reference.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}
