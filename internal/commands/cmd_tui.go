package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/internal/sheetmark/sweep"
	"github.com/colonyops/sheetmark/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *sheetmark.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *sheetmark.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "xlsx",
			Usage:       "read cells from a local .xlsx file instead of the evidence service",
			Sources:     cli.EnvVars("SHEETMARK_XLSX"),
			TakesFile:   true,
			Destination: &cmd.flags.XLSX,
		},
		&cli.BoolFlag{
			Name:        "refresh",
			Usage:       "ignore the cached sheet snapshot and fetch fresh cell data",
			Destination: &cmd.flags.Refresh,
		},
	}
}

// Register adds the view command, which is also the default action.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Open the interactive workbook viewer",
		UsageText: "sheetmark view [--workbook ID] [--xlsx FILE]",
		Description: `Opens a workbook in the terminal grid viewer.

Drag with the mouse to select a range; hold ctrl or alt to add ranges.
Dragging past an edge scrolls the grid. Hover an annotation for its menu,
right-click for actions, press ? for keyboard shortcuts.`,
		Action: cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the viewer needs an interactive terminal; use 'sheetmark ls' or 'sheetmark cell' for scripted access")
	}

	open := cmd.flags.openOptions()
	wb, err := openWorkbook(ctx, cmd.app, open)
	if err != nil {
		return err
	}

	var warnings []string
	for _, w := range cmd.app.Config.Warnings() {
		warnings = append(warnings, w.Category+": "+w.Message)
	}
	if wb.Local && open.WorkbookID == "" {
		warnings = append(warnings, "Viewing a local file without --workbook; annotations are read-only.")
	}

	if cmd.app.Snapshots != nil {
		sweepCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go sweep.Start(sweepCtx, cmd.app.Snapshots, cmd.app.Config.Cache.SweepInterval)
	}

	var watcher *tui.FileWatcher
	if open.File != "" {
		watcher = tui.NewFileWatcher(open.File, logging.Component("watch"))
		defer watcher.Close()
	}

	m := tui.New(cmd.app.Config, wb, tui.Options{
		Opener:   cmd.app.Workbooks,
		Open:     open,
		Warnings: warnings,
		Watcher:  watcher,
	})
	p := tea.NewProgram(m, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	log.Debug().Str("workbook", wb.ID).Msg("viewer closed")
	return nil
}
