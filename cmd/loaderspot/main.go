package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitRegistryError = 3
	ExitReportError   = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "search":
		return runSearch(cmdArgs)
	case "resolve":
		return runResolve(cmdArgs)
	case "update":
		return runUpdate(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: loaderspot <command> [options]

Commands:
  search    Interactively probe a build-number range for installer URLs
  resolve   Find installer URLs for a version by expanding the search window,
            then submit the result to a collector endpoint
  update    Insert a version entry into the versions.json registry

Run 'loaderspot <command> -h' for command-specific help.`)
}
