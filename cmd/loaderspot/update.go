package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"

	"github.com/LoaderSpot/LoaderSpot/internal/config"
	"github.com/LoaderSpot/LoaderSpot/internal/registry"
)

func runUpdate(args []string) int {
	fs := flag.NewFlagSet("update", flag.ExitOnError)

	data := fs.String("data", "", "JSON object with one version key (required)")
	buildType := fs.String("build-type", "", "buildType field injected into the entry")
	bucketURL := fs.String("bucket", "", "Registry bucket URL (default: config registry.bucket)")
	object := fs.String("object", "", "Registry object path (default: config registry.object)")
	configPath := fs.String("config", "", "Path to YAML config file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: loaderspot update -data '<json>' [options]

Insert one version entry into the versions.json registry. The entry replaces
any existing value under the same key, and the file is rewritten with its
keys in descending natural-sort order (digit runs compare numerically).

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Error: -data is required")
		fs.Usage()
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
	if *bucketURL == "" {
		*bucketURL = cfg.Registry.Bucket
	}
	if *object == "" {
		*object = cfg.Registry.Object
	}
	if *bucketURL == "" {
		fmt.Fprintln(os.Stderr, "Error: a registry bucket is required (-bucket, config, or LOADERSPOT_REGISTRY_BUCKET)")
		return ExitInvalidArgs
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(*data), &entries); err != nil {
		fmt.Fprintf(os.Stderr, "JSON parse error: %v\n", err)
		return ExitInvalidArgs
	}
	if len(entries) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -data must hold exactly one version key")
		return ExitInvalidArgs
	}

	var versionKey string
	var entry json.RawMessage
	for key, value := range entries {
		versionKey, entry = key, value
	}

	if *buildType != "" && !strings.EqualFold(*buildType, "false") {
		withType, err := registry.WithBuildType(entry, *buildType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		entry = withType
	}

	ctx := context.Background()

	bucket, err := blob.OpenBucket(ctx, *bucketURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitRegistryError
	}
	defer bucket.Close()

	store := registry.NewStore(bucket, *object)
	if err := store.Update(ctx, versionKey, entry); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitRegistryError
	}

	fmt.Printf("Version %s added to %s\n", versionKey, *object)
	return ExitSuccess
}
