package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
	"github.com/kalibra-labs/kalibra-go/internal/repo"
	"github.com/kalibra-labs/kalibra-go/internal/schema"
	"github.com/kalibra-labs/kalibra-go/internal/testset"
)

type registryService struct {
	runs     repo.RunStore
	testSets repo.TestSetStore
	now      func() time.Time
}

func newRegistryService(runs repo.RunStore, testSets repo.TestSetStore) *registryService {
	return &registryService{
		runs:     runs,
		testSets: testSets,
		now:      time.Now,
	}
}

// IngestRun validates and persists a raw run document produced by the
// benchmark runner. Documents without an id get one assigned; the created
// timestamp is recorded at ingest.
func (s *registryService) IngestRun(ctx context.Context, raw []byte) (domain.BenchmarkRun, error) {
	if s == nil || s.runs == nil {
		return domain.BenchmarkRun{}, fmt.Errorf("run service not initialized")
	}
	if err := schema.ValidateRunDocument(raw); err != nil {
		return domain.BenchmarkRun{}, fmt.Errorf("%w: %s", testset.ErrInvalidInput, err)
	}

	var run domain.BenchmarkRun
	if err := json.Unmarshal(raw, &run); err != nil {
		return domain.BenchmarkRun{}, fmt.Errorf("%w: decode run: %s", testset.ErrInvalidInput, err)
	}
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.Created.IsZero() {
		run.Created = s.now().UTC()
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return domain.BenchmarkRun{}, err
	}
	return run, nil
}

func (s *registryService) GetRun(ctx context.Context, id string) (domain.BenchmarkRun, error) {
	return s.runs.Get(ctx, id)
}

func (s *registryService) ListRuns(ctx context.Context) ([]domain.BenchmarkRun, error) {
	return s.runs.List(ctx)
}

func (s *registryService) DeleteRun(ctx context.Context, id string) error {
	return s.runs.Delete(ctx, id)
}

// DeriveTestSet freezes the named run's scenarios into a new test set and
// persists it. The save rejects an existing name; nothing is overwritten.
func (s *registryService) DeriveTestSet(ctx context.Context, sourceRunID, name, description, version string) (domain.TestSet, error) {
	if s == nil || s.runs == nil || s.testSets == nil {
		return domain.TestSet{}, fmt.Errorf("test set service not initialized")
	}
	run, err := s.runs.Get(ctx, sourceRunID)
	if err != nil {
		return domain.TestSet{}, err
	}

	set, err := testset.Derive(run, name, description, version)
	if err != nil {
		return domain.TestSet{}, err
	}
	if err := s.testSets.Create(ctx, set); err != nil {
		return domain.TestSet{}, err
	}
	return set, nil
}

func (s *registryService) GetTestSet(ctx context.Context, name string) (domain.TestSet, error) {
	return s.testSets.Get(ctx, name)
}

func (s *registryService) ListTestSets(ctx context.Context) ([]domain.TestSet, error) {
	return s.testSets.List(ctx)
}

func (s *registryService) DeleteTestSet(ctx context.Context, name string) error {
	return s.testSets.Delete(ctx, name)
}
