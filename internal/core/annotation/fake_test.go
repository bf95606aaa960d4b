package annotation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"
)

// fakeAPI is an in-memory evidence service.
type fakeAPI struct {
	mu       sync.Mutex
	seq      int
	now      time.Time
	records  []RangeEvidence
	attached map[string][]string

	listErr   error
	createErr error
	attachErr error
	listCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		attached: map[string][]string{},
	}
}

func (f *fakeAPI) list(kind Kind) ([]RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []RangeEvidence
	for _, r := range f.records {
		if r.Type == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAPI) ListMappings(_ context.Context, _ string) ([]RangeEvidence, error) {
	return f.list(KindMapping)
}

func (f *fakeAPI) ListReferences(_ context.Context, _ string) ([]RangeEvidence, error) {
	return f.list(KindReference)
}

func (f *fakeAPI) CreateRangeEvidence(_ context.Context, workbookID string, req CreateRequest) (RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return RangeEvidence{}, f.createErr
	}
	f.seq++
	f.now = f.now.Add(time.Minute)
	ev := RangeEvidence{
		ID:         fmt.Sprintf("ev-%d", f.seq),
		WorkbookID: workbookID,
		Type:       req.Type,
		Sheet:      req.Sheet,
		StartRow:   req.StartRow,
		StartCol:   req.StartCol,
		EndRow:     req.EndRow,
		EndCol:     req.EndCol,
		Color:      req.Color,
		Notes:      req.Notes,
		CreatedAt:  f.now,
		UpdatedAt:  f.now,
	}
	f.records = append(f.records, ev)
	return ev, nil
}

func (f *fakeAPI) UpdateRangeEvidence(_ context.Context, _ string, id string, patch Patch) (RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID != id {
			continue
		}
		if patch.Color != nil {
			f.records[i].Color = patch.Color
		}
		if patch.Notes != nil {
			f.records[i].Notes = patch.Notes
		}
		return f.records[i], nil
	}
	return RangeEvidence{}, ErrNotFound
}

func (f *fakeAPI) DeleteRangeEvidence(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.records)
	f.records = slices.DeleteFunc(f.records, func(r RangeEvidence) bool { return r.ID == id })
	if len(f.records) == n {
		return ErrNotFound
	}
	return nil
}

func (f *fakeAPI) GetRangeEvidence(_ context.Context, _ string, id string) (RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			for _, eid := range f.attached[id] {
				r.LinkedEvidenceFiles = append(r.LinkedEvidenceFiles, EvidenceFileRef{
					EvidenceID: eid,
					File:       FileRef{ID: "file-" + eid, Name: eid + ".pdf"},
				})
			}
			return r, nil
		}
	}
	return RangeEvidence{}, ErrNotFound
}

func (f *fakeAPI) AttachEvidence(_ context.Context, _ string, id string, evidenceIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached[id] = append(f.attached[id], evidenceIDs...)
	return nil
}

// fakeDocs is an in-memory document library.
type fakeDocs struct {
	uploads   []string
	failNames map[string]bool
	records   []EvidenceRecord
}

func (d *fakeDocs) UploadFile(_ context.Context, _ string, name string, body io.Reader) (string, error) {
	if d.failNames[name] {
		return "", errors.New("upload rejected")
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	d.uploads = append(d.uploads, name)
	return "file-" + name, nil
}

func (d *fakeDocs) CreateEvidence(_ context.Context, rec EvidenceRecord) (string, error) {
	d.records = append(d.records, rec)
	return "evid-" + rec.Name, nil
}

func stringUpload(name, body string) Upload {
	return Upload{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}
