// Package validator is the plug-in framework: the check contract, the
// ordered registry, the run context shared by every check, and the runner
// that decides which checks apply to which inputs and writes their reports.
package validator

import (
	"context"
	"log/slog"

	"rorcheck/internal/baseline"
	"rorcheck/internal/geonames"
	"rorcheck/internal/platform/config"
	"rorcheck/internal/rorapi"
)

// Format names an input mode a check can consume.
type Format string

const (
	// FormatCSV runs against the tabular input alone.
	FormatCSV Format = "csv"
	// FormatJSON runs against the tree directory alone.
	FormatJSON Format = "json"
	// FormatCSVJSON cross-references both inputs; it is a single mode, not
	// two runs.
	FormatCSVJSON Format = "csv_json"
)

// Row is one report finding: a subset of the check's declared output fields.
type Row map[string]string

// Context bundles everything a check may need. The baseline is shared
// read-only; checks must not mutate it.
type Context struct {
	CSVPath      string
	JSONDir      string
	OutputDir    string
	GeonamesUser string

	Baseline *baseline.DataSource
	Geonames *geonames.Client
	Search   *rorapi.Client

	Config *config.Config
	Logger *slog.Logger
}

// Check is one validator. Checks are pure given their inputs; the only
// exceptions are the HTTP-backed ones, which take their transports from the
// Context so tests can stub them.
type Check interface {
	// Name is the stable identifier used on the CLI.
	Name() string
	// Formats is the set of input modes the check implements.
	Formats() []Format
	// OutputFilename is the report basename; the runner prefixes the format.
	OutputFilename() string
	// OutputFields is the column order of the report.
	OutputFields() []string
	// RequiresBaseline reports whether the check reads the baseline snapshot.
	RequiresBaseline() bool
	// RequiresGeonames reports whether the check calls the place-ID service.
	RequiresGeonames() bool
	// CanRun reports whether preconditions hold, with a reason when not.
	CanRun(vc *Context) (bool, string)
	// Run produces the findings for one format.
	Run(ctx context.Context, vc *Context, format Format) ([]Row, error)
}

// Base carries a check's declarations and implements the boilerplate half of
// the Check contract. Concrete checks embed it and implement Run.
type Base struct {
	CheckName     string
	CheckFormats  []Format
	Filename      string
	Fields        []string
	NeedsBaseline bool
	NeedsGeonames bool
}

func (b Base) Name() string             { return b.CheckName }
func (b Base) Formats() []Format        { return append([]Format(nil), b.CheckFormats...) }
func (b Base) OutputFilename() string   { return b.Filename }
func (b Base) OutputFields() []string   { return append([]string(nil), b.Fields...) }
func (b Base) RequiresBaseline() bool   { return b.NeedsBaseline }
func (b Base) RequiresGeonames() bool   { return b.NeedsGeonames }

// CanRun enforces the declared precondition flags. The baseline itself loads
// lazily in the runner, so here only the geonames credential is checked.
func (b Base) CanRun(vc *Context) (bool, string) {
	if b.NeedsGeonames && vc.GeonamesUser == "" {
		return false, "requires a geonames username"
	}
	return true, ""
}
