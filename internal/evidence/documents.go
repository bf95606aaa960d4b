package evidence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/colonyops/sheetmark/internal/core/annotation"
)

type idResponse struct {
	ID string `json:"id"`
}

// UploadFile stores a file in a document library folder and returns its id.
func (c *Client) UploadFile(ctx context.Context, folderID, name string, body io.Reader) (string, error) {
	if folderID == "" {
		return "", errors.New("upload: folder id is required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("upload %s: read body: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	path := "/folders/" + url.PathEscape(folderID) + "/files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out idResponse
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("upload %s: response has no file id", name)
	}
	return out.ID, nil
}

// CreateEvidence registers an uploaded file as an evidence record.
func (c *Client) CreateEvidence(ctx context.Context, rec annotation.EvidenceRecord) (string, error) {
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/evidence", rec, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("create evidence for %s: response has no id", rec.FileID)
	}
	return out.ID, nil
}
