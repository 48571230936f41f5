package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TestSet is a named, immutable, reusable snapshot of scenarios derived from
// a benchmark run, for replay across other models and prompts. The name is
// also the persistence key.
//
// SourceRunID is provenance only: deleting the source run neither invalidates
// nor removes the test set.
type TestSet struct {
	Name                     string     `json:"name"`
	Version                  string     `json:"version"`
	Description              string     `json:"description"`
	Created                  time.Time  `json:"created"`
	DomainID                 string     `json:"domainId"`
	ScenarioCount            int        `json:"scenarioCount"`
	Seed                     *int64     `json:"seed"`
	GenerateTwins            bool       `json:"generateTwins"`
	UseNarrativeDescriptions bool       `json:"useNarrativeDescriptions"`
	NarrativeModel           string     `json:"narrativeModel,omitempty"`
	SourceRunID              string     `json:"sourceRunId"`
	Scenarios                []Scenario `json:"scenarios"`
}

func (t TestSet) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("test set name is required")
	}
	if strings.TrimSpace(t.Version) == "" {
		return errors.New("test set version is required")
	}
	if t.Scenarios == nil {
		return errors.New("scenarios are required")
	}
	if t.ScenarioCount != len(t.Scenarios) {
		return fmt.Errorf("scenario count %d does not match %d scenarios", t.ScenarioCount, len(t.Scenarios))
	}
	return nil
}
