package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kalibra-labs/kalibra-go/internal/repo"
	"github.com/kalibra-labs/kalibra-go/internal/repo/fsjson"
	"github.com/kalibra-labs/kalibra-go/internal/testset"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Freeze a run's scenarios into a reusable test-set file",
	Long: `Derive reads a benchmark run from the data directory and writes an
immutable test-set document that replays the same scenarios against other
models or prompts. With --manifest, several test sets are derived in one
invocation. Existing output files are overwritten.`,
	RunE: runDeriveCommand,
}

func init() {
	deriveCmd.Flags().String("run", "", "source run id")
	deriveCmd.Flags().String("name", "baseline-v1", "test set name")
	deriveCmd.Flags().String("set-version", "1.0.0", "test set version label")
	deriveCmd.Flags().String("description", "", "test set description")
	deriveCmd.Flags().Int64("seed", 0, "original generation seed, when known")
	deriveCmd.Flags().String("out", "", "output file (default <data>/test-sets/<name>.json)")
	deriveCmd.Flags().String("manifest", "", "YAML manifest describing derivations")

	_ = viper.BindPFlag("derive.run", deriveCmd.Flags().Lookup("run"))
	_ = viper.BindPFlag("derive.name", deriveCmd.Flags().Lookup("name"))
}

func runDeriveCommand(cmd *cobra.Command, args []string) error {
	dataDir := viper.GetString("data")
	runs, err := fsjson.NewRunStore(dataDir)
	if err != nil {
		return err
	}

	manifestPath, _ := cmd.Flags().GetString("manifest")
	var entries []manifestEntry
	if manifestPath != "" {
		m, err := loadManifest(manifestPath)
		if err != nil {
			return err
		}
		entries = m.TestSets
	} else {
		entry, err := entryFromFlags(cmd)
		if err != nil {
			return err
		}
		entries = []manifestEntry{entry}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, entry := range entries {
		path, err := deriveToFile(ctx, runs, entry, dataDir)
		if err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", path)
	}
	return nil
}

func entryFromFlags(cmd *cobra.Command) (manifestEntry, error) {
	run, _ := cmd.Flags().GetString("run")
	if run == "" {
		run = viper.GetString("derive.run")
	}
	if run == "" {
		return manifestEntry{}, fmt.Errorf("--run is required (or use --manifest)")
	}
	name, _ := cmd.Flags().GetString("name")
	version, _ := cmd.Flags().GetString("set-version")
	description, _ := cmd.Flags().GetString("description")
	out, _ := cmd.Flags().GetString("out")

	entry := manifestEntry{
		Run:         run,
		Name:        name,
		Version:     version,
		Description: description,
		Out:         out,
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		entry.Seed = &seed
	}
	return entry, nil
}

// deriveToFile loads the source run, derives the test set, and writes it as
// pretty-printed JSON, creating the target directory and overwriting any
// existing file.
func deriveToFile(ctx context.Context, runs repo.RunStore, entry manifestEntry, dataDir string) (string, error) {
	if err := entry.validate(); err != nil {
		return "", err
	}

	run, err := runs.Get(ctx, entry.Run)
	if err != nil {
		return "", fmt.Errorf("load run %s: %w", entry.Run, err)
	}

	set, err := testset.Derive(run, entry.Name, entry.Description, entry.Version)
	if err != nil {
		return "", err
	}
	set.Seed = entry.Seed

	out := entry.Out
	if out == "" {
		out = filepath.Join(dataDir, "test-sets", set.Name+".json")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode test set: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("write test set: %w", err)
	}
	return out, nil
}
