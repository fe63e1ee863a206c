package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/LoaderSpot/LoaderSpot/internal/config"
	"github.com/LoaderSpot/LoaderSpot/internal/notify"
	"github.com/LoaderSpot/LoaderSpot/internal/platform"
	"github.com/LoaderSpot/LoaderSpot/internal/probe"
	"github.com/LoaderSpot/LoaderSpot/internal/search"
)

func runResolve(args []string) int {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)

	version := fs.String("version", "", "Client version to resolve (required)")
	source := fs.String("source", "", "Label recorded with the submission (required)")
	endpoint := fs.String("endpoint", "", "Collector endpoint base URL (required)")
	configPath := fs.String("config", "", "Path to YAML config file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: loaderspot resolve -version <version> -source <label> -endpoint <url>

Search for installer URLs without knowing the build number: probe an initial
window, then keep widening it for the platforms still missing a hit, up to a
bounded number of rounds. The resolved URLs are submitted to the collector
endpoint. Intended for unattended runs.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *version == "" || *source == "" || *endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: -version, -source, and -endpoint are required")
		fs.Usage()
		return ExitInvalidArgs
	}
	if !platform.ValidShortVersion(*version) {
		fmt.Fprintln(os.Stderr, "Error: invalid version format")
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return resolveAndReport(ctx, cfg, *version, *source, *endpoint)
}

func resolveAndReport(ctx context.Context, cfg config.Config, version, source, endpoint string) int {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	client := probe.NewClient(probe.Options{
		MaxConnections: cfg.MaxConnections,
		Timeout:        cfg.Timeout,
	})
	searcher := search.NewSearcher(platform.NewURLBuilder(cfg.BaseURL), client)
	platforms := platform.Default(version)

	log.WithFields(logrus.Fields{
		"version":   version,
		"platforms": len(platforms),
		"width":     cfg.Adaptive.InitialWidth,
		"rounds":    cfg.Adaptive.MaxRounds,
	}).Info("starting adaptive search")

	resolved := searcher.SearchAdaptive(ctx, version, platforms, search.AdaptiveOptions{
		InitialWidth: cfg.Adaptive.InitialWidth,
		Increment:    cfg.Adaptive.Increment,
		MaxRounds:    cfg.Adaptive.MaxRounds,
	})

	if len(resolved) == 0 {
		log.WithField("version", version).Warn("no installer URLs found")
	}
	for p, url := range resolved {
		log.WithFields(logrus.Fields{
			"platform": p.String(),
			"url":      url,
		}).Info("resolved")
	}

	notifier := notify.NewNotifier(notify.Options{
		SnapshotURL: cfg.SnapshotURL,
		FormURL:     cfg.FormURL,
		Timeout:     cfg.Timeout,
	})

	payload := notify.BuildPayload(version, source, resolved)
	response, err := notifier.Report(ctx, endpoint, payload)
	if err != nil {
		log.WithError(err).Error("submit results")
		return ExitReportError
	}

	log.WithField("response", response).Info("results submitted")
	return ExitSuccess
}
