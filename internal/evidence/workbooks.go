package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/colonyops/sheetmark/internal/core/annotation"
)

// CellValue is a sheet cell rendered as text. The service normally sends
// strings, but numbers, booleans and nulls are accepted too.
type CellValue string

func (v *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = CellValue(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = CellValue(bytes.ToUpper(data))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			*v = CellValue(strconv.FormatInt(int64(f), 10))
			return nil
		}
		*v = CellValue(n.String())
	}
	return nil
}

// SheetData is the raw sheet-data response.
type SheetData struct {
	SheetNames []string                 `json:"sheetNames"`
	SheetData  map[string][][]CellValue `json:"sheetData"`
}

// Strings converts the cell values into plain strings per sheet.
func (d SheetData) Strings() map[string][][]string {
	out := make(map[string][][]string, len(d.SheetData))
	for name, rows := range d.SheetData {
		converted := make([][]string, len(rows))
		for i, row := range rows {
			line := make([]string, len(row))
			for j, v := range row {
				line[j] = string(v)
			}
			converted[i] = line
		}
		out[name] = converted
	}
	return out
}

// SheetData fetches the cell values of every sheet in the workbook.
func (c *Client) SheetData(ctx context.Context, workbookID string) (SheetData, error) {
	var out SheetData
	err := c.do(ctx, http.MethodGet, workbookPath(workbookID, "sheet-data"), nil, &out)
	return out, err
}

func (c *Client) ListMappings(ctx context.Context, workbookID string) ([]annotation.RangeEvidence, error) {
	var out []annotation.RangeEvidence
	if err := c.do(ctx, http.MethodGet, workbookPath(workbookID, "mappings"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListReferences(ctx context.Context, workbookID string) ([]annotation.RangeEvidence, error) {
	var out []annotation.RangeEvidence
	if err := c.do(ctx, http.MethodGet, workbookPath(workbookID, "references"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRangeEvidence(ctx context.Context, workbookID string, req annotation.CreateRequest) (annotation.RangeEvidence, error) {
	var out annotation.RangeEvidence
	err := c.do(ctx, http.MethodPost, workbookPath(workbookID, "range-evidence"), req, &out)
	return out, err
}

func (c *Client) UpdateRangeEvidence(ctx context.Context, workbookID, id string, patch annotation.Patch) (annotation.RangeEvidence, error) {
	var out annotation.RangeEvidence
	err := c.do(ctx, http.MethodPatch, workbookPath(workbookID, "range-evidence", url.PathEscape(id)), patch, &out)
	return out, err
}

func (c *Client) DeleteRangeEvidence(ctx context.Context, workbookID, id string) error {
	return c.do(ctx, http.MethodDelete, workbookPath(workbookID, "range-evidence", url.PathEscape(id)), nil, nil)
}

func (c *Client) GetRangeEvidence(ctx context.Context, workbookID, id string) (annotation.RangeEvidence, error) {
	var out annotation.RangeEvidence
	err := c.do(ctx, http.MethodGet, workbookPath(workbookID, "range-evidence", url.PathEscape(id)), nil, &out)
	return out, err
}

type attachRequest struct {
	EvidenceIDs []string `json:"evidenceIds"`
}

func (c *Client) AttachEvidence(ctx context.Context, workbookID, id string, evidenceIDs []string) error {
	path := workbookPath(workbookID, "range-evidence", url.PathEscape(id), "attach-evidence")
	return c.do(ctx, http.MethodPost, path, attachRequest{EvidenceIDs: evidenceIDs}, nil)
}
