package domain

import (
	"errors"
	"fmt"
	"reflect"
)

// EnsureTestSetImmutable enforces that a stored test set's content cannot
// change after creation. Name identifies the document; everything derived at
// creation time is frozen.
func EnsureTestSetImmutable(before, after TestSet) error {
	if before.Name == "" || after.Name == "" {
		return errors.New("test set names are required")
	}
	if before.Name != after.Name {
		return fmt.Errorf("test set name changed from %q to %q", before.Name, after.Name)
	}
	if before.Version != after.Version {
		return errors.New("version is immutable")
	}
	if !before.Created.Equal(after.Created) {
		return errors.New("created timestamp is immutable")
	}
	if before.DomainID != after.DomainID {
		return errors.New("domain id is immutable")
	}
	if before.ScenarioCount != after.ScenarioCount {
		return errors.New("scenario count is immutable")
	}
	if !seedEqual(before.Seed, after.Seed) {
		return errors.New("seed is immutable")
	}
	if before.GenerateTwins != after.GenerateTwins {
		return errors.New("generate twins flag is immutable")
	}
	if before.UseNarrativeDescriptions != after.UseNarrativeDescriptions {
		return errors.New("narrative descriptions flag is immutable")
	}
	if before.NarrativeModel != after.NarrativeModel {
		return errors.New("narrative model is immutable")
	}
	if before.SourceRunID != after.SourceRunID {
		return errors.New("source run id is immutable")
	}
	if !reflect.DeepEqual(before.Scenarios, after.Scenarios) {
		return errors.New("scenarios are immutable")
	}
	return nil
}

func seedEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
