package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/core/doctor"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *sheetmark.App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *sheetmark.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your sheetmark setup",
		UsageText:   "sheetmark doctor [options]",
		Description: "Runs diagnostic checks on the configuration, the snapshot cache and the evidence service.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., delete expired snapshots)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := cmd.app.Doctor.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(ctx, results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, out)
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputText(ctx context.Context, results []doctor.Result) error {
	p := printer.Ctx(ctx)

	p.Printf("")
	p.Section("Sheetmark Doctor")
	p.Printf("")

	for _, result := range results {
		p.Printf("%s", styles.TextForegroundBoldStyle.Render(result.Name))
		for _, item := range result.Items {
			p.Printf("  %s %s%s", statusIcon(item.Status), item.Label, detailText(item))
		}
		p.Printf("")
	}

	passed, warned, failed := doctor.Summary(results)
	p.Printf("%s  %s  %s",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", failed)),
	)

	if fixable := doctor.CountFixable(results); !cmd.autofix && fixable > 0 {
		p.Printf("")
		p.Printf("%s", styles.TextMutedStyle.Render(fmt.Sprintf("Run 'sheetmark doctor --autofix' to fix %d issue(s)", fixable)))
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusPass:
		return styles.TextSuccessStyle.Render("✔")
	case doctor.StatusWarn:
		return styles.TextWarningStyle.Render(styles.IconWarning)
	default:
		return styles.TextErrorStyle.Render("✘")
	}
}

func detailText(item doctor.CheckItem) string {
	if item.Detail == "" {
		return ""
	}
	d := " " + styles.TextMutedStyle.Render(item.Detail)
	if item.Fixable {
		d += styles.TextWarningStyle.Render(" (fixable)")
	}
	return d
}
