package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hypercert-metadata/internal/application"
	"hypercert-metadata/internal/config"
	"hypercert-metadata/internal/csvio"
	"hypercert-metadata/internal/diagnostic"
	"hypercert-metadata/internal/metadata"
	"hypercert-metadata/internal/naming"
	"hypercert-metadata/internal/override"
)

// Input CSV columns.
const (
	ColumnProjectID = "project_id"
	ColumnIPFSData  = "ipfs_data"
)

// errEmptySlug is returned when a project name has no letters or digits to
// build a file name from.
var errEmptySlug = errors.New("project name yields an empty file name")

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Mapper builds a record from a decoded application.
type Mapper interface {
	Map(doc *application.Document, projectID string) (*metadata.Record, error)
}

// Options configure a Driver.
type Options struct {
	// OutputDir must exist before the run.
	OutputDir string
	// Workers is the number of rows processed concurrently. Values below 1
	// mean sequential processing.
	Workers int
	// Indent is the number of spaces per JSON indentation level.
	Indent int
	// Overrides are curated work scopes by project name.
	Overrides override.Table
	// Logger receives progress and row failures. Nil disables logging.
	Logger *zap.Logger
}

// Row is one application to process.
type Row struct {
	// Line is the input line the row starts on.
	Line int
	// ProjectID is the project identifier used in grant page URLs.
	ProjectID string
	// Payload is the application as JSON text or an already parsed object.
	Payload any
	// Raw holds every column of the input row for diagnostics.
	Raw map[string]string
	// ReadErr is set when the CSV row itself could not be parsed.
	ReadErr error
}

// Result summarizes a run.
type Result struct {
	RunID       string
	Rows        int
	Written     int
	Rejected    int
	Failed      int
	Overridden  int
	Files       []string
	Diagnostics diagnostic.Diagnostics
}

// Summary returns the closing line of a run.
func (r *Result) Summary() string {
	return fmt.Sprintf("Created metadata for %d projects.", r.Written)
}

// Driver runs metadata builds.
type Driver struct {
	mapper Mapper
	opts   Options
	logger *zap.Logger
}

// New creates a driver.
func New(mapper Mapper, opts Options) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	if opts.Indent < 1 {
		opts.Indent = config.NewDefault().Defaults.Indent
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Driver{mapper: mapper, opts: opts, logger: logger}
}

// RunFile processes the CSV file at path. Failing to open or read the
// file is fatal; row failures are not.
func (d *Driver) RunFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV %s: %w", path, err)
	}
	defer f.Close()

	res, err := d.Run(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to process input CSV %s: %w", path, err)
	}

	return res, nil
}

// Run reads every row from r and processes them.
func (d *Driver) Run(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}

	return d.Process(ctx, rows)
}

// ReadRows reads the application rows of an export. Malformed CSV rows are
// returned with ReadErr set; an empty input yields no rows.
func ReadRows(r io.Reader) ([]Row, error) {
	reader, err := csvio.NewReader(r)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := reader.Require(ColumnProjectID, ColumnIPFSData); err != nil {
		return nil, err
	}

	var rows []Row

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rows = append(rows, Row{Line: rec.Line, ReadErr: err})

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rows = append(rows, Row{
			Line:      rec.Line,
			ProjectID: rec.Get(ColumnProjectID),
			Payload:   rec.Get(ColumnIPFSData),
			Raw:       rec.Fields,
		})
	}
}

// rowResult is the outcome of one row. Records are built concurrently but
// written in row order, so file holds the encoded record until then.
type rowResult struct {
	outcome    Outcome
	name       string
	file       string
	data       []byte
	path       string
	overridden bool
	code       string
	err        error
}

// Process builds and writes records for rows. It only returns an error
// if ctx is cancelled.
func (d *Driver) Process(ctx context.Context, rows []Row) (*Result, error) {
	runID := uuid.NewString()
	logger := d.logger.With(zap.String("run_id", runID))

	logger.Info("Starting metadata build",
		zap.Int("rows", len(rows)),
		zap.String("output_dir", d.opts.OutputDir),
		zap.Int("workers", d.opts.Workers),
		zap.Int("overrides", len(d.opts.Overrides)))

	results := make([]rowResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = d.buildRow(row, rowLogger(logger, row))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, Rows: len(rows)}

	for i, rr := range results {
		row := rows[i]
		loc := diagnostic.Location{Row: row.Line, ProjectID: row.ProjectID}

		if rr.outcome == OutcomeWritten {
			rr = d.writeRow(rr, rowLogger(logger, row), row)
		}

		switch rr.outcome {
		case OutcomeWritten:
			res.Written++
			res.Files = append(res.Files, rr.path)

			if rr.overridden {
				res.Overridden++
				res.Diagnostics.AddInfo(diagnostic.CodeOverrideApplied,
					fmt.Sprintf("work scope overridden for %q", rr.name), loc)
			}
		case OutcomeRejected:
			res.Rejected++
			res.Diagnostics.AddWarning(diagnostic.CodeNotVerified, rr.err.Error(), loc)
		case OutcomeFailed:
			res.Failed++
			res.Diagnostics.AddError(rr.code, rr.err.Error(), loc, dumper.Sdump(row.Raw))
		}
	}

	logger.Info("Finished metadata build",
		zap.Int("written", res.Written),
		zap.Int("rejected", res.Rejected),
		zap.Int("failed", res.Failed),
		zap.Int("overridden", res.Overridden))

	return res, nil
}

func rowLogger(logger *zap.Logger, row Row) *zap.Logger {
	return logger.With(zap.Int("row", row.Line), zap.String("project_id", row.ProjectID))
}

// failRow logs a skipped row and returns its failed result.
func failRow(logger *zap.Logger, row Row, code string, err error) rowResult {
	logger.Warn("Skipping row",
		zap.String("code", code),
		zap.Error(err),
		zap.String("raw", dumper.Sprintf("%v", row.Raw)))

	return rowResult{outcome: OutcomeFailed, code: code, err: err}
}

// buildRow decodes, maps, overrides and encodes a single row.
func (d *Driver) buildRow(row Row, logger *zap.Logger) rowResult {
	if row.ReadErr != nil {
		return failRow(logger, row, diagnostic.CodeParseError, row.ReadErr)
	}

	doc, err := application.DecodeValue(row.Payload)
	if err != nil {
		return failRow(logger, row, classify(err), err)
	}

	rec, err := d.mapper.Map(doc, row.ProjectID)
	if errors.Is(err, metadata.ErrNotVerified) {
		logger.Debug("Project not in registry", zap.Error(err))

		return rowResult{outcome: OutcomeRejected, err: err}
	}

	if err != nil {
		return failRow(logger, row, classify(err), err)
	}

	overridden := d.opts.Overrides.Apply(rec)
	if overridden {
		logger.Info("Updating work scope", zap.String("project", rec.Name))
	}

	slug := naming.Slug(rec.Name)
	if slug == "" {
		return failRow(logger, row, diagnostic.CodeWriteError, fmt.Errorf("%w: %q", errEmptySlug, rec.Name))
	}

	data, err := metadata.Marshal(rec, d.opts.Indent)
	if err != nil {
		return failRow(logger, row, diagnostic.CodeWriteError, err)
	}

	return rowResult{
		outcome:    OutcomeWritten,
		name:       rec.Name,
		file:       slug + ".json",
		data:       data,
		overridden: overridden,
	}
}

// writeRow writes an encoded record into the output directory.
func (d *Driver) writeRow(rr rowResult, logger *zap.Logger, row Row) rowResult {
	path, err := writeAtomic(d.opts.OutputDir, rr.file, rr.data)
	if err != nil {
		return failRow(logger, row, diagnostic.CodeWriteError, err)
	}

	logger.Debug("Wrote metadata", zap.String("path", path))

	rr.path = path
	rr.data = nil

	return rr
}

// classify maps a row error to its diagnostic code.
func classify(err error) string {
	switch {
	case errors.Is(err, application.ErrMalformedPayload):
		return diagnostic.CodeParseError
	case errors.Is(err, application.ErrMissingField):
		return diagnostic.CodeMissingField
	case errors.Is(err, config.ErrUnknownRound):
		return diagnostic.CodeUnknownRound
	default:
		return diagnostic.CodeMapError
	}
}
