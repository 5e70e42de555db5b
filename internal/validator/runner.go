package validator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"rorcheck/internal/baseline"
	"rorcheck/pkg/domainerr"
)

// BaselineLoader supplies the snapshot on demand. The runner calls it at
// most once per run and shares the result with every check.
type BaselineLoader func(ctx context.Context) (*baseline.DataSource, error)

// SelectAll selects every registered check.
const SelectAll = "all"

// Runner executes selected checks against the available input formats.
type Runner struct {
	registry *Registry
	loader   BaselineLoader
}

// NewRunner builds a runner. loader may be nil when no selected check needs
// the baseline.
func NewRunner(registry *Registry, loader BaselineLoader) *Runner {
	return &Runner{registry: registry, loader: loader}
}

// Run applies the selection rules of the engine: derive available formats
// from the inputs, pick the named checks (or all), skip or fail on
// unsatisfied preconditions depending on whether the selection was explicit,
// then run each check once per applicable format and write its report.
func (r *Runner) Run(ctx context.Context, vc *Context, names []string) error {
	if vc.CSVPath == "" && vc.JSONDir == "" {
		return domainerr.NewConfigurationError("at least one of the tabular file and the tree directory is required")
	}
	if err := os.MkdirAll(vc.OutputDir, 0o755); err != nil {
		return domainerr.NewConfigurationError("create output directory %s: %v", vc.OutputDir, err)
	}

	available := availableFormats(vc)
	runAll := isRunAll(names)

	selected, err := r.selectChecks(vc, names, runAll)
	if err != nil {
		return err
	}

	applicable, err := r.filterApplicable(vc, selected, available, runAll)
	if err != nil {
		return err
	}

	if err := r.ensureBaseline(ctx, vc, applicable); err != nil {
		return err
	}

	for _, c := range applicable {
		for _, format := range c.Formats() {
			if !available[format] {
				continue
			}
			vc.Logger.Info("running check", "check", c.Name(), "format", string(format))
			rows, err := c.Run(ctx, vc, format)
			if err != nil {
				return fmt.Errorf("check %s (%s): %w", c.Name(), format, err)
			}
			path := filepath.Join(vc.OutputDir, outputName(format, c.OutputFilename()))
			if err := WriteReport(path, c.OutputFields(), rows); err != nil {
				return err
			}
			if len(rows) > 0 {
				vc.Logger.Info("findings written", "check", c.Name(), "format", string(format), "count", len(rows), "path", path)
			}
		}
	}
	return nil
}

func isRunAll(names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if n == SelectAll {
			return true
		}
	}
	return false
}

func (r *Runner) selectChecks(vc *Context, names []string, runAll bool) ([]Check, error) {
	if runAll {
		return r.registry.All(), nil
	}
	picked := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := r.registry.Get(n); !ok {
			vc.Logger.Warn("unknown check name", "check", n)
			continue
		}
		picked[n] = true
	}
	var selected []Check
	for _, c := range r.registry.All() {
		if picked[c.Name()] {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

// filterApplicable drops (when running all) or rejects (when explicitly
// named) checks whose format needs or preconditions are unsatisfied.
func (r *Runner) filterApplicable(vc *Context, selected []Check, available map[Format]bool, runAll bool) ([]Check, error) {
	var applicable []Check
	for _, c := range selected {
		if onlyCrossFormat(c) && !available[FormatCSVJSON] {
			if runAll {
				vc.Logger.Warn("skipping check: needs both inputs", "check", c.Name())
				continue
			}
			return nil, domainerr.NewConfigurationError("check %s needs both the tabular file and the tree directory", c.Name())
		}
		if ok, reason := c.CanRun(vc); !ok {
			if runAll {
				vc.Logger.Warn("skipping check", "check", c.Name(), "reason", reason)
				continue
			}
			return nil, domainerr.NewConfigurationError("check %s cannot run: %s", c.Name(), reason)
		}
		applicable = append(applicable, c)
	}
	return applicable, nil
}

func (r *Runner) ensureBaseline(ctx context.Context, vc *Context, checks []Check) error {
	if vc.Baseline != nil {
		return nil
	}
	needed := false
	for _, c := range checks {
		if c.RequiresBaseline() {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}
	if r.loader == nil {
		return domainerr.NewConfigurationError("a baseline snapshot is required but no loader is configured")
	}
	vc.Logger.Info("loading baseline snapshot")
	ds, err := r.loader(ctx)
	if err != nil {
		return err
	}
	vc.Logger.Info("baseline loaded", "records", ds.Len())
	vc.Baseline = ds
	return nil
}

func availableFormats(vc *Context) map[Format]bool {
	available := make(map[Format]bool, 3)
	if vc.CSVPath != "" {
		available[FormatCSV] = true
	}
	if vc.JSONDir != "" {
		available[FormatJSON] = true
	}
	if vc.CSVPath != "" && vc.JSONDir != "" {
		available[FormatCSVJSON] = true
	}
	return available
}

func onlyCrossFormat(c Check) bool {
	formats := c.Formats()
	return len(formats) == 1 && formats[0] == FormatCSVJSON
}

func outputName(format Format, filename string) string {
	if format == FormatCSVJSON {
		return filename
	}
	return string(format) + "_" + filename
}
