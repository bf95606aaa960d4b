package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
)

type PruneCmd struct {
	flags *Flags
	app   *sheetmark.App
	all   bool
}

// NewPruneCmd creates a new prune command
func NewPruneCmd(flags *Flags, app *sheetmark.App) *PruneCmd {
	return &PruneCmd{flags: flags, app: app}
}

// Register adds the prune command to the application
func (cmd *PruneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prune",
		Usage:     "Remove cached sheet snapshots",
		UsageText: "sheetmark prune [--all]",
		Description: `Deletes expired sheet snapshots from the local cache.

With --all every cached workbook is dropped and the next open fetches
fresh cell data. Annotations live on the evidence service and are never
affected.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "drop every snapshot, not just expired ones",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PruneCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	snapshots := cmd.app.Snapshots
	if snapshots == nil {
		p.Infof("Snapshot cache is disabled")
		return nil
	}

	if cmd.all {
		ids, err := snapshots.ListWorkbooks(ctx)
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		for _, id := range ids {
			if err := cmd.app.Workbooks.Forget(ctx, id); err != nil {
				return fmt.Errorf("drop snapshot %s: %w", id, err)
			}
		}
		if len(ids) == 0 {
			p.Infof("No cached snapshots")
			return nil
		}
		p.Successf("Dropped %d snapshot(s)", len(ids))
		return nil
	}

	count, err := snapshots.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if count == 0 {
		p.Infof("No expired snapshots to prune")
		return nil
	}

	p.Successf("Pruned %d snapshot(s)", count)

	return nil
}
