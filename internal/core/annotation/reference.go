package annotation

import (
	"context"
	"errors"
	"fmt"
)

// ReferenceResult is the outcome of CreateReference. Warning is set when the
// reference was created but some files could not be uploaded or linked; the
// reference and any uploaded files are kept.
type ReferenceResult struct {
	Evidence    RangeEvidence
	EvidenceIDs []string
	Warning     error
}

// CreateReference creates a reference annotation, uploads each file through
// the document library, registers it as evidence and links it. Validation
// happens before any request is sent.
func (s *Store) CreateReference(ctx context.Context, in CreateInput, uploads []Upload) (ReferenceResult, error) {
	in.Kind = KindReference
	in.Color = ""

	if len(uploads) > 0 {
		if err := s.checkUploads(); err != nil {
			return ReferenceResult{}, err
		}
	}

	created, err := s.Create(ctx, in)
	if err != nil {
		return ReferenceResult{}, err
	}

	res := s.attachUploads(ctx, created, uploads)
	if res.Warning != nil {
		res.Warning = fmt.Errorf("reference %s created with errors: %w", created.ID, res.Warning)
	}
	return res, nil
}

// AttachUploads uploads files and links them to an existing reference.
// Partial failures are reported in Warning; the error is set only when
// nothing could be attempted.
func (s *Store) AttachUploads(ctx context.Context, referenceID string, uploads []Upload) (ReferenceResult, error) {
	ev, ok := s.Lookup(referenceID)
	if !ok {
		return ReferenceResult{}, fmt.Errorf("attach to %s: %w", referenceID, ErrNotFound)
	}
	if ev.Type != KindReference {
		return ReferenceResult{}, fmt.Errorf("%w: files can only be attached to references, %s is a %s", ErrValidation, referenceID, ev.Type)
	}
	if err := s.checkUploads(); err != nil {
		return ReferenceResult{}, err
	}
	return s.attachUploads(ctx, ev, uploads), nil
}

func (s *Store) checkUploads() error {
	if s.opts.Docs == nil {
		return fmt.Errorf("%w: no document library configured for file uploads", ErrValidation)
	}
	if s.opts.ClassificationID == "" {
		return fmt.Errorf("%w: classification id is required to attach files", ErrValidation)
	}
	return nil
}

func (s *Store) attachUploads(ctx context.Context, ev RangeEvidence, uploads []Upload) ReferenceResult {
	res := ReferenceResult{Evidence: ev}

	var failures []error
	for _, up := range uploads {
		id, err := s.uploadEvidence(ctx, up)
		if err != nil {
			s.log.Warn().Err(err).Str("file", up.Name).Msg("evidence upload failed")
			failures = append(failures, err)
			continue
		}
		res.EvidenceIDs = append(res.EvidenceIDs, id)
	}

	if len(res.EvidenceIDs) > 0 {
		if err := s.AttachFiles(ctx, ev.ID, res.EvidenceIDs); err != nil {
			failures = append(failures, fmt.Errorf("link %d file(s): %w", len(res.EvidenceIDs), err))
		} else if full, err := s.Get(ctx, ev.ID); err == nil {
			res.Evidence = full
		}
	}

	if len(failures) > 0 {
		res.Warning = errors.Join(failures...)
	}
	return res
}

func (s *Store) uploadEvidence(ctx context.Context, up Upload) (string, error) {
	body, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", up.Name, err)
	}
	defer func() { _ = body.Close() }()

	fileID, err := s.opts.Docs.UploadFile(ctx, s.opts.FolderID, up.Name, body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", up.Name, err)
	}

	evidenceID, err := s.opts.Docs.CreateEvidence(ctx, EvidenceRecord{
		FileID:           fileID,
		ClassificationID: s.opts.ClassificationID,
		Name:             up.Name,
	})
	if err != nil {
		return "", fmt.Errorf("register %s: %w", up.Name, err)
	}
	return evidenceID, nil
}
