package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/5l1v3r1/linkcheck/internal/config"
	"github.com/5l1v3r1/linkcheck/internal/crawler"
	"github.com/5l1v3r1/linkcheck/internal/export"
	"github.com/5l1v3r1/linkcheck/internal/report"
)

// Exit codes: 0 = no broken links, 1 = broken links found, 2 = internal error.
const (
	exitOK       = 0
	exitBroken   = 1
	exitInternal = 2
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var globs stringList
	cfgPath := flag.String("config", "", "Path to YAML configuration file")
	external := flag.Bool("external", true, "Also check external links")
	connections := flag.Int("connections", 0, "Number of concurrent fetch workers")
	jsonPath := flag.String("json", "", "Write a JSON report to this path")
	csvPath := flag.String("csv", "", "Write a CSV report to this path")
	verbose := flag.Bool("verbose", false, "Log at debug level")
	quiet := flag.Bool("quiet", false, "Log errors only")
	flag.Var(&globs, "glob", "Host glob defining the internal scope (repeatable); defaults to <seed>**")
	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "linkcheck: %v\n", err)
			return exitInternal
		}
		cfg = *loaded
	}

	seeds := flag.Args()
	if len(seeds) == 0 {
		seeds = cfg.Crawl.Seeds
	}
	if len(seeds) == 0 {
		usage()
		return exitInternal
	}

	if len(globs) > 0 {
		cfg.Crawl.HostGlobs = globs
	}
	if *connections > 0 {
		cfg.Crawl.Connections = *connections
	}
	flagSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagSet[f.Name] = true })
	if flagSet["external"] || *cfgPath == "" {
		cfg.Crawl.CheckExternal = *external
	}
	if *jsonPath != "" {
		cfg.Export.JSONPath = *jsonPath
	}
	if *csvPath != "" {
		cfg.Export.CSVPath = *csvPath
	}
	switch {
	case *verbose:
		cfg.Logging.Level = "debug"
	case *quiet:
		cfg.Logging.Level = "error"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "linkcheck: %v\n", err)
		return exitInternal
	}

	logger, err := crawler.BuildLogger(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkcheck: %v\n", err)
		return exitInternal
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := crawler.Crawl(ctx, seeds, cfg.Crawl.HostGlobs, crawler.OptionsFrom(cfg.Crawl, logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkcheck: %v\n", err)
		return exitInternal
	}

	if err := report.NewWriter(os.Stdout).Write(result); err != nil {
		fmt.Fprintf(os.Stderr, "linkcheck: %v\n", err)
		return exitInternal
	}

	var exporters []export.Exporter
	if cfg.Export.JSONPath != "" {
		exporters = append(exporters, export.NewJSONExporter(cfg.Export.JSONPath))
	}
	if cfg.Export.CSVPath != "" {
		exporters = append(exporters, export.NewCSVExporter(cfg.Export.CSVPath))
	}
	if err := export.NewPipeline(exporters...).Export(result); err != nil {
		fmt.Fprintf(os.Stderr, "linkcheck: %v\n", err)
		return exitInternal
	}

	if len(result.BrokenLinks()) > 0 {
		return exitBroken
	}
	return exitOK
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: linkcheck [flags] URL [URL...]\n\nFlags:\n")
	flag.PrintDefaults()
}
