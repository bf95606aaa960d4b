package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/iojson"
	"github.com/colonyops/sheetmark/pkg/logutils"
	"github.com/colonyops/sheetmark/pkg/randid"
)

type BatchCmd struct {
	flags *Flags
	app   *sheetmark.App
	fr    *iojson.FileReader[BatchInput]
}

func NewBatchCmd(flags *Flags, app *sheetmark.App) *BatchCmd {
	return &BatchCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Create multiple annotations from JSON or YAML input",
		UsageText: `sheetmark batch --workbook ID [options]

Read from stdin:
  echo '{"annotations":[{"type":"mapping","address":"Controls!B2:C3"}]}' | sheetmark batch -w wb-1

Read from file:
  sheetmark batch -w wb-1 -f annotations.json
  sheetmark batch -w wb-1 -f annotations.yaml`,
		Description: `Creates mapping and reference annotations from a JSON or YAML file.

Annotations are created sequentially. Processing stops after 3 failures;
annotations not attempted are marked as skipped. A reference whose files
only partly uploaded counts as created and carries a warning.

Input JSON schema (YAML files use the same keys):
  {
    "annotations": [
      {
        "type": "mapping | reference",
        "address": "Sheet!A1:B5",
        "color": "#FFEB3B",
        "notes": "optional notes",
        "files": ["evidence/**/*.pdf"]
      }
    ]
  }

Fields:
  type    - Required. mapping or reference.
  address - Required. Range with a sheet prefix.
  color   - Optional. Hex color, mappings only.
  notes   - Optional. Free text.
  files   - Optional. Paths or globs to upload, references only.

Output is JSON with a batch ID, log file path, and results for each annotation.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	batchID := randid.Generate(6)
	logFile := filepath.Join(cmd.app.Config.LogsDir(), "batch-"+batchID+".log")

	logger, closer, err := logutils.New(cmd.flags.LogLevel, logFile, logging.ContextHook{})
	if err != nil {
		return iojson.WriteError(fmt.Sprintf("setup logger: %s", err), nil)
	}
	defer closer()

	logger.Info().Str("batch_id", batchID).Msg("starting batch processing")

	input, err := cmd.fr.Read()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return iojson.WriteError(fmt.Sprintf("read input: %s", err), nil)
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return iojson.WriteError(fmt.Sprintf("invalid input: %s", err), nil)
	}

	ctx, store, err := openWritableStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open workbook")
		return iojson.WriteError(err.Error(), map[string]any{"batch_id": batchID})
	}

	if err := input.CheckSheets(store.HasSheet); err != nil {
		logger.Error().Err(err).Msg("input names unknown sheets")
		return iojson.WriteError(fmt.Sprintf("invalid input: %s", err), map[string]any{"batch_id": batchID})
	}

	output := BatchOutput{
		BatchID:    batchID,
		WorkbookID: store.WorkbookID(),
		LogFile:    logFile,
		Results:    runBatch(ctx, store, input, logger),
	}

	logger.Info().
		Int("total", len(input.Annotations)).
		Int("created", countByStatus(output.Results, StatusCreated)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("batch processing complete")

	return iojson.WriteWith(c.Root().Writer, os.Stderr, output)
}

// runBatch creates each annotation in order, stopping after maxFailures.
func runBatch(ctx context.Context, store *annotation.Store, input BatchInput, logger zerolog.Logger) []BatchResult {
	results := make([]BatchResult, 0, len(input.Annotations))

	failures := 0
	for i, item := range input.Annotations {
		if failures >= maxFailures {
			logger.Warn().Str("address", item.Address).Msg("skipping annotation due to failure threshold")
			for _, rest := range input.Annotations[i:] {
				results = append(results, BatchResult{
					Type:    rest.Type,
					Address: rest.Address,
					Status:  StatusSkipped,
				})
			}
			break
		}

		logger.Info().Str("address", item.Address).Int("index", i).Msg("creating annotation")

		result := createAnnotation(ctx, store, item)
		results = append(results, result)

		if result.Status == StatusFailed {
			failures++
			logger.Error().Str("address", item.Address).Str("error", result.Error).Msg("annotation creation failed")
		} else {
			logger.Info().Str("address", item.Address).Str("id", result.ID).Msg("annotation created")
		}
	}

	return results
}

func createAnnotation(ctx context.Context, store *annotation.Store, item BatchAnnotation) BatchResult {
	result := BatchResult{Type: item.Type, Address: item.Address}
	fail := func(err error) BatchResult {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	// validated up front
	addr, _ := cellref.ParseAddress(item.Address)
	in := annotation.CreateInput{
		Kind:  annotation.Kind(item.Type),
		Sheet: addr.Sheet,
		Range: &addr.Range,
		Color: item.Color,
		Notes: item.Notes,
	}

	var (
		created annotation.RangeEvidence
		err     error
	)
	if in.Kind == annotation.KindReference {
		uploads, uerr := sheetmark.ExpandUploads(item.Files)
		if uerr != nil {
			return fail(uerr)
		}
		var res annotation.ReferenceResult
		res, err = store.CreateReference(ctx, in, uploads)
		created = res.Evidence
		if res.Warning != nil {
			result.Warning = res.Warning.Error()
		}
	} else {
		created, err = store.Create(ctx, in)
	}
	if err != nil {
		return fail(err)
	}

	result.ID = created.ID
	result.Address = created.Address()
	result.Status = StatusCreated
	return result
}

const (
	StatusCreated = "created" // StatusCreated indicates the annotation was created.
	StatusFailed  = "failed"  // StatusFailed indicates the annotation could not be created.
	StatusSkipped = "skipped" // StatusSkipped indicates the annotation was not attempted due to failure threshold.
	maxFailures   = 3         // maxFailures is the number of failures before stopping batch processing.
)

// BatchInput is the JSON input schema for batch annotation creation.
type BatchInput struct {
	Annotations []BatchAnnotation `json:"annotations" yaml:"annotations"`
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate() error {
	if len(b.Annotations) == 0 {
		return criterio.NewFieldErrors("annotations", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool)

	for i, item := range b.Annotations {
		field := fmt.Sprintf("annotations[%d]", i)

		kind, err := annotation.ParseKind(item.Type)
		if err != nil {
			errs = errs.Append(field+".type", err)
			continue
		}

		addr, err := cellref.ParseAddress(item.Address)
		if err != nil {
			errs = errs.Append(field+".address", err)
			continue
		}
		if addr.Sheet == "" {
			errs = errs.Append(field+".address", fmt.Errorf("address %q needs a sheet prefix", item.Address))
			continue
		}

		key := string(kind) + "|" + cellref.FormatAddress(addr.Sheet, addr.Range)
		if seen[key] {
			errs = errs.Append(field+".address", fmt.Errorf("duplicate %s %q", kind, item.Address))
			continue
		}
		seen[key] = true

		switch kind {
		case annotation.KindMapping:
			if item.Color != "" {
				if _, err := colorful.Hex(item.Color); err != nil {
					errs = errs.Append(field+".color", fmt.Errorf("invalid hex color %q", item.Color))
				}
			}
			if len(item.Files) > 0 {
				errs = errs.Append(field+".files", fmt.Errorf("files can only be attached to references"))
			}
		case annotation.KindReference:
			if item.Color != "" {
				errs = errs.Append(field+".color", fmt.Errorf("references do not have a color"))
			}
		}
	}

	return errs.ToError()
}

// CheckSheets rejects items whose address names a sheet for which known
// returns false. It runs after Validate, so addresses are well formed.
func (b BatchInput) CheckSheets(known func(string) bool) error {
	var errs criterio.FieldErrorsBuilder
	for i, item := range b.Annotations {
		addr, err := cellref.ParseAddress(item.Address)
		if err != nil || known(addr.Sheet) {
			continue
		}
		errs = errs.Append(fmt.Sprintf("annotations[%d].address", i),
			fmt.Errorf("%w: unknown sheet %q", annotation.ErrValidation, addr.Sheet))
	}
	return errs.ToError()
}

// BatchAnnotation defines a single annotation to create.
type BatchAnnotation struct {
	Type    string   `json:"type" yaml:"type"`
	Address string   `json:"address" yaml:"address"`
	Color   string   `json:"color,omitempty" yaml:"color,omitempty"`
	Notes   string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Files   []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// BatchResult is the output for a single creation attempt.
type BatchResult struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// BatchOutput is the JSON output schema.
type BatchOutput struct {
	BatchID    string        `json:"batch_id"`
	WorkbookID string        `json:"workbook_id"`
	LogFile    string        `json:"log_file"`
	Results    []BatchResult `json:"results"`
}

// BatchErrorOutput is the JSON output for fatal errors.
type BatchErrorOutput struct {
	Error string `json:"error"`
}

func countByStatus(results []BatchResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
