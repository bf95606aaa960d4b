package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/commands"
	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/data/db"
	"github.com/colonyops/sheetmark/internal/data/stores"
	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := printer.NewContext(context.Background(), printer.New(os.Stderr))

	var (
		logCloser   func()
		sheetmarkApp = &sheetmark.App{}
		database     *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "sheetmark",
		Usage:     "Annotate spreadsheet ranges with compliance evidence",
		UsageText: "sheetmark [global options] command [command options]",
		Description: `Sheetmark opens workbooks in a terminal grid where you select cell ranges
with the mouse and link them to evidence: colored mappings and references
backed by uploaded files.

Run 'sheetmark --workbook ID' with no command to open the viewer.
Run 'sheetmark init' to configure the evidence service.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SHEETMARK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/sheetmark.log)",
				Sources:     cli.EnvVars("SHEETMARK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SHEETMARK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SHEETMARK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "workbook",
				Aliases:     []string{"w"},
				Usage:       "evidence service workbook id",
				Sources:     cli.EnvVars("SHEETMARK_WORKBOOK"),
				Destination: &flags.Workbook,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/sheetmark.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "sheetmark.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Colors.Theme)
			styles.SetTheme(palette)

			if !cfg.Cache.Disabled {
				dbOpts := db.OpenOptions{
					MaxOpenConns: cfg.Database.MaxOpenConns,
					MaxIdleConns: cfg.Database.MaxIdleConns,
					BusyTimeout:  cfg.Database.BusyTimeout,
				}
				database, err = db.Open(cfg.DataDir, dbOpts)
				if err != nil {
					if !stores.IsCorruptionError(err) {
						return ctx, fmt.Errorf("open database: %w", err)
					}
					// The cache only holds re-fetchable sheet data.
					log.Warn().Err(err).Msg("snapshot cache corrupted, recreating")
					if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
						return ctx, fmt.Errorf("recover database: %w", rerr)
					}
					if database, err = db.Open(cfg.DataDir, dbOpts); err != nil {
						return ctx, fmt.Errorf("open database: %w", err)
					}
				}
			}

			svcLogger := logging.Component("sheetmark")
			client, err := sheetmark.NewClient(cfg, logging.Component("evidence"))
			if err != nil {
				return ctx, fmt.Errorf("create evidence client: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*sheetmarkApp = *sheetmark.NewApp(cfg, database, client, svcLogger)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, sheetmarkApp)

	app = tuiCmd.Register(app)
	app = commands.NewLsCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewShowCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewCellCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewAddCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewEditCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewRmCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewAttachCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewBatchCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewPruneCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewDoctorCmd(flags, sheetmarkApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewDocCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'sheetmark --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
