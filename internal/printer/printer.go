// Package printer writes styled status lines for CLI commands. Commands pull
// the printer from the context so tests can capture output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/sheetmark/internal/core/styles"
)

type ctxKey struct{}

// Printer writes human oriented output, usually to stderr so stdout stays
// clean for data. Colors are downsampled to what the writer supports.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = lipgloss.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.TextSuccessStyle.Render("✔"), format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.TextPrimaryStyle.Render("●"), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.TextWarningStyle.Render(styles.IconWarning), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.TextErrorStyle.Render("✘"), format, args...)
}

// Section prints a bold title followed by a divider.
func (p *Printer) Section(title string) {
	_, _ = lipgloss.Fprintln(p.w, styles.TextPrimaryBoldStyle.Render(title))
	_, _ = lipgloss.Fprintln(p.w, styles.TextMutedStyle.Render(strings.Repeat("─", 40)))
}

func (p *Printer) line(icon, format string, args ...any) {
	_, _ = lipgloss.Fprintf(p.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
