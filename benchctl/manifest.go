package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// manifest describes one or more derivations to perform in a single
// invocation.
type manifest struct {
	TestSets []manifestEntry `yaml:"testSets"`
}

type manifestEntry struct {
	Run         string `yaml:"run"`
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Seed        *int64 `yaml:"seed"`
	Out         string `yaml:"out"`
}

func (e manifestEntry) validate() error {
	if strings.TrimSpace(e.Run) == "" {
		return fmt.Errorf("manifest entry %q: run is required", e.Name)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("manifest entry for run %q: name is required", e.Run)
	}
	return nil
}

func loadManifest(path string) (manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.TestSets) == 0 {
		return manifest{}, fmt.Errorf("manifest %s lists no test sets", path)
	}
	for _, entry := range m.TestSets {
		if err := entry.validate(); err != nil {
			return manifest{}, err
		}
	}
	return m, nil
}
