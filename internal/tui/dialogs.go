package tui

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/internal/tui/components/form"
)

const (
	fieldWidth     = 48
	maxNotesLength = 4000
)

type dialogKind int

const (
	dialogCreate dialogKind = iota
	dialogEdit
	dialogAttach
	dialogDelete
)

// dialog is one annotation action: a form for create, edit and attach, a
// confirmation for delete.
type dialog struct {
	kind     dialogKind
	evKind   annotation.Kind
	sheet    string
	rng      cellref.Range
	target   annotation.RangeEvidence
	subtitle string

	form    *form.Dialog
	confirm *form.Confirm

	origColor string
}

func kindTitle(k annotation.Kind) string {
	if k == annotation.KindReference {
		return "reference"
	}
	return "mapping"
}

func newCreateDialog(kind annotation.Kind, sheet string, rng cellref.Range, defaultColor string) *dialog {
	d := &dialog{
		kind:     dialogCreate,
		evKind:   kind,
		sheet:    sheet,
		rng:      rng,
		subtitle: cellref.FormatAddress(sheet, rng),
	}

	var fields []form.Field
	var names []string
	if kind == annotation.KindMapping {
		fields, names = append(fields, colorField(defaultColor)), append(names, "color")
	}
	fields, names = append(fields, notesField("")), append(names, "notes")
	if kind == annotation.KindReference {
		fields, names = append(fields, filesField(false)), append(names, "files")
	}

	d.form = form.NewDialog("New "+kindTitle(kind), fields, names)
	return d
}

func newEditDialog(ev annotation.RangeEvidence, fallbackColor string) *dialog {
	d := &dialog{
		kind:     dialogEdit,
		evKind:   ev.Type,
		target:   ev,
		subtitle: ev.Address(),
	}

	var fields []form.Field
	var names []string
	if ev.Type == annotation.KindMapping {
		d.origColor = ev.ColorOr(fallbackColor)
		fields, names = append(fields, colorField(d.origColor)), append(names, "color")
	}
	fields, names = append(fields, notesField(ev.NotesText())), append(names, "notes")

	d.form = form.NewDialog("Edit "+kindTitle(ev.Type), fields, names)
	return d
}

func newAttachDialog(ev annotation.RangeEvidence) *dialog {
	return &dialog{
		kind:     dialogAttach,
		evKind:   ev.Type,
		target:   ev,
		subtitle: ev.Address(),
		form:     form.NewDialog("Attach files", []form.Field{filesField(true)}, []string{"files"}),
	}
}

func newDeleteDialog(ev annotation.RangeEvidence) *dialog {
	return &dialog{
		kind:    dialogDelete,
		evKind:  ev.Type,
		target:  ev,
		confirm: form.NewConfirm(fmt.Sprintf("Delete %s %s?", kindTitle(ev.Type), ev.Address()), "This cannot be undone."),
	}
}

func colorField(value string) form.Field {
	f := form.NewTextField("Color", annotation.DefaultMappingColor, value).
		WithValidation(form.FieldValidation{Check: validateColor})
	f.SetWidth(fieldWidth)
	return f
}

func notesField(value string) form.Field {
	f := form.NewTextAreaField("Notes (markdown)", "", value).
		WithValidation(form.FieldValidation{MaxLength: maxNotesLength})
	f.SetWidth(fieldWidth)
	return f
}

func filesField(required bool) form.Field {
	f := form.NewTextField("Files", "paths or glob patterns, space separated", "").
		WithValidation(form.FieldValidation{Required: required, Check: validateFiles})
	f.SetWidth(fieldWidth)
	return f
}

func validateColor(s string) error {
	if _, err := colorful.Hex(s); err != nil {
		return errors.New("expected a hex color like #FFEB3B")
	}
	return nil
}

func validateFiles(s string) error {
	_, err := sheetmark.ExpandUploads(strings.Fields(s))
	return err
}

func (d *dialog) Init() tea.Cmd {
	if d.form == nil {
		return nil
	}
	return d.form.Init()
}

// update forwards msg to the form or confirmation.
func (d *dialog) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if d.confirm != nil {
		d.confirm, cmd = d.confirm.Update(msg)
		return cmd
	}
	d.form, cmd = d.form.Update(msg)
	return cmd
}

func (d *dialog) completed() bool {
	if d.confirm != nil {
		return d.confirm.Confirmed()
	}
	return d.form.Submitted()
}

func (d *dialog) aborted() bool {
	if d.confirm != nil {
		return d.confirm.Cancelled()
	}
	return d.form.Cancelled()
}

// value returns a form field's text, "" for fields the dialog lacks.
func (d *dialog) value(name string) string {
	if d.form == nil {
		return ""
	}
	return strings.TrimSpace(d.form.FormValues()[name])
}

func (d *dialog) View() string {
	if d.confirm != nil {
		return styles.ModalStyle.Render(d.confirm.View())
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(d.form.Title),
		styles.TextMutedStyle.Render(d.subtitle),
		"",
		d.form.View(),
	)
	return styles.ModalStyle.Render(content)
}

// submit turns the finished dialog into the mutation to run. It returns nil
// when the dialog ends without a change, e.g. a declined delete.
func (d *dialog) submit(store *annotation.Store) tea.Cmd {
	switch d.kind {
	case dialogCreate:
		rng := d.rng
		in := annotation.CreateInput{
			Kind:  d.evKind,
			Sheet: d.sheet,
			Range: &rng,
			Color: d.value("color"),
			Notes: d.value("notes"),
		}
		if d.evKind == annotation.KindReference {
			return createReferenceCmd(store, in, strings.Fields(d.value("files")))
		}
		return createCmd(store, in)

	case dialogEdit:
		var patch annotation.Patch
		if d.evKind == annotation.KindMapping {
			if c := d.value("color"); c != "" && !strings.EqualFold(c, d.origColor) {
				patch.Color = &c
			}
		}
		if n := d.value("notes"); n != strings.TrimSpace(d.target.NotesText()) {
			patch.Notes = &n
		}
		if patch.Empty() {
			return nil
		}
		return updateCmd(store, d.target, patch)

	case dialogAttach:
		return attachCmd(store, d.target, strings.Fields(d.value("files")))

	case dialogDelete:
		if !d.confirm.Confirmed() {
			return nil
		}
		return removeCmd(store, d.target)
	}
	return nil
}

// evidenceViewer shows one annotation rendered as markdown.
type evidenceViewer struct {
	ev            annotation.RangeEvidence
	fallbackColor string
	loading       bool
	width         int
	viewport      viewport.Model
}

func newEvidenceViewer(ev annotation.RangeEvidence, fallbackColor string, screenW, screenH int) *evidenceViewer {
	w := max(20, min(76, screenW-6))
	h := max(4, min(20, screenH-8))
	v := &evidenceViewer{
		ev:            ev,
		fallbackColor: fallbackColor,
		loading:       true,
		width:         w,
		viewport:      viewport.New(viewport.WithWidth(w), viewport.WithHeight(h)),
	}
	v.render()
	return v
}

func (v *evidenceViewer) setEvidence(ev annotation.RangeEvidence) {
	v.ev = ev
	v.loading = false
	v.render()
}

func (v *evidenceViewer) render() {
	md := annotation.Markdown(v.ev, v.fallbackColor)
	out, err := renderMarkdown(md, v.width)
	if err != nil {
		out = md
	}
	v.viewport.SetContent(out)
	v.viewport.GotoTop()
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func (v *evidenceViewer) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *evidenceViewer) View() string {
	title := styles.ModalTitleStyle.Render(kindIcon(v.ev.Type) + " " + v.ev.Address())
	help := "↑/↓ scroll • esc close"
	if v.loading {
		help = "loading files… • " + help
	}
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		v.viewport.View(),
		styles.ModalHelpStyle.Render(help),
	))
}
