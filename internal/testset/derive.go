// Package testset derives reusable, immutable test sets from benchmark runs.
package testset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
)

// ErrInvalidInput marks derivation failures caused by the caller's arguments.
var ErrInvalidInput = errors.New("invalid input")

// Overridable for deterministic timestamps in tests.
var timeNow = time.Now

// Derive freezes a run's scenario list into a named test set so the same
// inputs can be replayed against different models and prompts.
//
// The result is a snapshot: the scenario sequence is deep-copied and shares
// no mutable state with the source run. The seed is not retrievable from a
// persisted run, so it is left null; callers that know the original seed set
// it afterwards. Derive is pure — persisting the result is the caller's
// separate step.
func Derive(run domain.BenchmarkRun, name, description, version string) (domain.TestSet, error) {
	if strings.TrimSpace(run.ID) == "" {
		return domain.TestSet{}, fmt.Errorf("%w: source run is required", ErrInvalidInput)
	}
	if run.Scenarios == nil {
		return domain.TestSet{}, fmt.Errorf("%w: run %s has no scenario sequence", ErrInvalidInput, run.ID)
	}
	if strings.TrimSpace(name) == "" {
		return domain.TestSet{}, fmt.Errorf("%w: test set name is required", ErrInvalidInput)
	}

	generateTwins := false
	for _, scenario := range run.Scenarios {
		if scenario.TwinID() != "" {
			generateTwins = true
			break
		}
	}

	set := domain.TestSet{
		Name:                     strings.TrimSpace(name),
		Version:                  strings.TrimSpace(version),
		Description:              strings.TrimSpace(description),
		Created:                  timeNow().UTC(),
		DomainID:                 run.DomainID,
		ScenarioCount:            len(run.Scenarios),
		Seed:                     nil,
		GenerateTwins:            generateTwins,
		UseNarrativeDescriptions: run.UseNarrativeDescriptions,
		NarrativeModel:           run.NarrativeModel,
		SourceRunID:              run.ID,
		Scenarios:                domain.CloneScenarios(run.Scenarios),
	}
	return set, nil
}
