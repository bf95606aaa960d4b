package annotation

import (
	"fmt"
	"strings"
)

// Markdown describes an annotation for display: its range, color, notes and
// linked files.
func Markdown(ev RangeEvidence, fallbackColor string) string {
	var b strings.Builder

	title := "Mapping"
	if ev.Type == KindReference {
		title = "Reference"
	}
	fmt.Fprintf(&b, "# %s %s\n\n", title, ev.Address())

	if ev.Type == KindMapping {
		fmt.Fprintf(&b, "**Color:** `%s`  \n", ev.ColorOr(fallbackColor))
	}
	if !ev.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Created:** %s  \n", ev.CreatedAt.Format("2006-01-02 15:04"))
	}
	if !ev.UpdatedAt.IsZero() && !ev.UpdatedAt.Equal(ev.CreatedAt) {
		fmt.Fprintf(&b, "**Updated:** %s  \n", ev.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "**ID:** `%s`\n\n", ev.ID)

	b.WriteString("## Notes\n\n")
	if notes := strings.TrimSpace(ev.NotesText()); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n\n")
	} else {
		b.WriteString("_No notes._\n\n")
	}

	if ev.Type == KindReference {
		b.WriteString("## Files\n\n")
		if len(ev.LinkedEvidenceFiles) == 0 {
			b.WriteString("_No files attached._\n")
		}
		for _, f := range ev.LinkedEvidenceFiles {
			name := f.File.Name
			if name == "" {
				name = f.EvidenceID
			}
			if f.File.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s)\n", name, f.File.URL)
			} else {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
	}

	return b.String()
}
