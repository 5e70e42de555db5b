// Command validate runs curation checks against a tabular request file
// and/or a directory of tree documents, writing one CSV report per check
// into the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"rorcheck/internal/baseline"
	"rorcheck/internal/checks"
	"rorcheck/internal/geonames"
	"rorcheck/internal/platform/config"
	"rorcheck/internal/platform/logger"
	"rorcheck/internal/rorapi"
	"rorcheck/internal/validator"
)

// stringList collects repeatable flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()

	var selected stringList
	flag.StringVar(&cfg.CSVPath, "csv", "", "tabular request file")
	flag.StringVar(&cfg.JSONDir, "json-dir", "", "directory of tree documents")
	flag.StringVar(&cfg.OutputDir, "output-dir", "output", "directory for check reports")
	flag.StringVar(&cfg.DataDump, "data-dump", "", "local baseline data dump (zip or JSON); fetched from the release index when empty")
	flag.StringVar(&cfg.GeonamesUser, "geonames-user", cfg.GeonamesUser, "geonames username (defaults to GEONAMES_USER)")
	flag.Var(&selected, "test", "check to run; repeatable, defaults to all")
	configPath := flag.String("config", "", "YAML overrides file")
	flag.Parse()

	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return err
		}
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var geoOpts []geonames.Option
	geoOpts = append(geoOpts, geonames.WithLogger(log))
	if cfg.GeonamesBaseURL != "" {
		geoOpts = append(geoOpts, geonames.WithBaseURL(cfg.GeonamesBaseURL))
	}

	searchOpts := []rorapi.Option{
		rorapi.WithLogger(log),
		rorapi.WithLimiter(rorapi.NewLimiter(cfg.RateLimit, cfg.RateWindow)),
	}
	if cfg.SearchBaseURL != "" {
		searchOpts = append(searchOpts, rorapi.WithBaseURL(cfg.SearchBaseURL))
	}

	vc := &validator.Context{
		CSVPath:      cfg.CSVPath,
		JSONDir:      cfg.JSONDir,
		OutputDir:    cfg.OutputDir,
		GeonamesUser: cfg.GeonamesUser,
		Geonames:     geonames.New(cfg.GeonamesUser, geoOpts...),
		Search:       rorapi.New(searchOpts...),
		Config:       cfg,
		Logger:       log,
	}

	loader := func(ctx context.Context) (*baseline.DataSource, error) {
		if cfg.DataDump != "" {
			return baseline.Load(cfg.DataDump)
		}
		return baseline.LoadRemote(ctx, nil, cfg.ReleaseIndexURL)
	}

	registry := validator.NewRegistry()
	checks.RegisterAll(registry)

	runner := validator.NewRunner(registry, loader)
	if err := runner.Run(ctx, vc, []string(selected)); err != nil {
		return err
	}

	if failed := vc.Geonames.Failures(); len(failed) > 0 {
		log.Warn("some place-ID lookups failed", "count", len(failed), "ids", strings.Join(failed, ","))
	}
	return nil
}
