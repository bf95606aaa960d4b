package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Levels(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %d", 2)
	p.Infof("note")
	p.Warnf("careful")
	p.Errorf("broken: %s", "x")
	p.Printf("  plain")

	assert.Equal(t, "✔ saved 2\n● note\n▲ careful\n✘ broken: x\n  plain\n", ansi.Strip(buf.String()))
}

func TestPrinter_Section(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Section("Next Steps")

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Next Steps\n")
	assert.Contains(t, out, "────")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	assert.Same(t, p, Ctx(NewContext(context.Background(), p)))
	assert.NotNil(t, Ctx(context.Background()))
}

func TestPrinter_PlainWriterGetsNoEscapes(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "0")

	var buf bytes.Buffer
	p := New(&buf)
	p.Errorf("broken")
	p.Section("Title")

	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "✘ broken\n")
}
