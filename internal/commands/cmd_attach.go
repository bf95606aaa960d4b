package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
)

type AttachCmd struct {
	flags    *Flags
	app      *sheetmark.App
	files    []string
	evidence []string
}

func NewAttachCmd(flags *Flags, app *sheetmark.App) *AttachCmd {
	return &AttachCmd{flags: flags, app: app}
}

func (cmd *AttachCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "attach",
		Usage:     "Link evidence files to a reference annotation",
		UsageText: "sheetmark attach ID (--file PATH|GLOB ... | --evidence EVIDENCE_ID ...)",
		Description: `Uploads files and links them to an existing reference, or links evidence
records that already exist in the document library.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "file or glob to upload",
				TakesFile:   true,
				Destination: &cmd.files,
			},
			&cli.StringSliceFlag{
				Name:        "evidence",
				Aliases:     []string{"e"},
				Usage:       "existing evidence id to link",
				Destination: &cmd.evidence,
			},
		},
		ShellComplete: AnnotationIDCompleter(cmd.flags, cmd.app),
		Action:        cmd.run,
	})
	return app
}

func (cmd *AttachCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one reference ID")
	}
	if len(cmd.files) == 0 && len(cmd.evidence) == 0 {
		return errors.New("nothing to attach; pass --file or --evidence")
	}
	id := c.Args().First()

	uploads, err := sheetmark.ExpandUploads(cmd.files)
	if err != nil {
		return err
	}

	ctx, store, err := openStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}
	ctx = logging.WithAnnotationID(ctx, id)
	p := printer.Ctx(ctx)

	if len(cmd.evidence) > 0 {
		if err := store.AttachFiles(ctx, id, cmd.evidence); err != nil {
			return err
		}
		p.Successf("Linked %d evidence record(s) to %s", len(cmd.evidence), id)
	}

	if len(uploads) > 0 {
		res, err := store.AttachUploads(ctx, id, uploads)
		if err != nil {
			return err
		}
		p.Successf("Attached %d of %d file(s) to %s", len(res.EvidenceIDs), len(uploads), id)
		if res.Warning != nil {
			p.Warnf("%v", res.Warning)
			return cli.Exit("", 2)
		}
	}
	return nil
}
