package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LoaderSpot/LoaderSpot/internal/config"
	"github.com/LoaderSpot/LoaderSpot/internal/notify"
	"github.com/LoaderSpot/LoaderSpot/internal/platform"
	"github.com/LoaderSpot/LoaderSpot/internal/probe"
	"github.com/LoaderSpot/LoaderSpot/internal/progress"
	"github.com/LoaderSpot/LoaderSpot/internal/search"
)

// notifyGrace is how long the repeat menu waits for the background
// check-and-submit task before abandoning it.
const notifyGrace = time.Second

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	versionFlag := fs.String("version", "", "Skip the version prompt and search this version")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: loaderspot search [options]

Interactively probe a build-number range for installer URLs. Prompts for the
client version, the number range, the platforms, and the connection cap, then
checks every candidate URL concurrently and prints the hits per platform.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
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

	if *versionFlag != "" && !platform.ValidVersion(*versionFlag) {
		fmt.Fprintln(os.Stderr, "Error: invalid version format")
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, shutting down...")
		cancel()
	}()

	return searchLoop(ctx, cfg, *versionFlag)
}

// searchLoop runs interactive searches until the user exits or stdin closes.
func searchLoop(ctx context.Context, cfg config.Config, version string) int {
	p := newPrompter(os.Stdin, os.Stdout)
	notifier := notify.NewNotifier(notify.Options{
		SnapshotURL: cfg.SnapshotURL,
		FormURL:     cfg.FormURL,
		Timeout:     cfg.Timeout,
	})

	for {
		maxConns, err := p.askMaxConnections(cfg.MaxConnections)
		if err != nil {
			return ExitGeneralError
		}

		if version == "" {
			version, err = p.askVersion()
			if err != nil {
				return ExitGeneralError
			}
		}

		// Best-effort: report the version if the published registry does not
		// know it yet. Races the search and is awaited only briefly.
		checkDone := make(chan struct{})
		go func(version string) {
			defer close(checkDone)
			notifier.CheckAndSubmit(ctx, version)
		}(version)

		start, end, err := p.askRange()
		if err != nil {
			return ExitGeneralError
		}

		platforms, err := p.askPlatforms(version)
		if err != nil {
			return ExitGeneralError
		}

		fmt.Println("\nSearching...")
		fmt.Println()

		client := probe.NewClient(probe.Options{
			MaxConnections: maxConns,
			Timeout:        cfg.Timeout,
		})
		searcher := search.NewSearcher(platform.NewURLBuilder(cfg.BaseURL), client)

		reporter := progress.NewReporter(progress.Options{
			Total: (end - start + 1) * len(platforms),
		})
		reporter.Start()
		results := searcher.SearchRange(ctx, version, start, end, platforms, reporter)
		reporter.Stop()

		displayResults(results)

		select {
		case <-checkDone:
		case <-time.After(notifyGrace):
		}

		if ctx.Err() != nil {
			return ExitSuccess
		}

		fmt.Println("\nChoose an option:")
		fmt.Println("[1] Perform the search with a new version")
		fmt.Println("[2] Perform the search again with the same version")
		fmt.Println("[3] Exit")

		choice, err := p.ask("Enter the number: ")
		if err != nil {
			return ExitGeneralError
		}

		switch choice {
		case "1":
			version = ""
			fmt.Println()
		case "2":
			fmt.Printf("\nSearch version: %s\n", version)
		case "3":
			return ExitSuccess
		default:
			fmt.Println("Invalid choice. Exiting the program.")
			return ExitInvalidArgs
		}
	}
}

// displayResults prints the found URLs grouped by platform, in menu order.
func displayResults(results *search.ResultSet) {
	foundAny := false
	for _, p := range platform.All() {
		urls := results.URLs(p)
		if len(urls) == 0 {
			continue
		}
		foundAny = true
		fmt.Printf("\n%s:\n", p)
		for _, url := range urls {
			fmt.Println(url)
		}
	}

	if !foundAny {
		fmt.Println("\nNothing found, consider increasing the search range")
	}
}
