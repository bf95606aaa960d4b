package annotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown_Mapping(t *testing.T) {
	created := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	md := Markdown(RangeEvidence{
		ID: "m1", Type: KindMapping, Sheet: "Controls",
		StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 2,
		Notes: ptr("Maps **AC-2** to the access review."), CreatedAt: created, UpdatedAt: created,
	}, DefaultMappingColor)

	assert.Contains(t, md, "# Mapping Controls!B2:C4")
	assert.Contains(t, md, "`#FFEB3B`")
	assert.Contains(t, md, "2026-03-04 10:30")
	assert.NotContains(t, md, "Updated")
	assert.Contains(t, md, "Maps **AC-2**")
	assert.NotContains(t, md, "## Files")
}

func TestMarkdown_ReferenceFiles(t *testing.T) {
	md := Markdown(RangeEvidence{
		ID: "r1", Type: KindReference, Sheet: "Sheet1",
		LinkedEvidenceFiles: []EvidenceFileRef{
			{EvidenceID: "e1", File: FileRef{Name: "policy.pdf", URL: "https://files.example.com/policy.pdf"}},
			{EvidenceID: "e2"},
		},
	}, "")

	assert.Contains(t, md, "# Reference Sheet1!A1")
	assert.Contains(t, md, "_No notes._")
	assert.Contains(t, md, "- [policy.pdf](https://files.example.com/policy.pdf)")
	assert.Contains(t, md, "- e2")
	assert.NotContains(t, md, "Color")
}
