package main

import (
	"context"
	"testing"
	"time"

	"github.com/kalibra-labs/kalibra-go/internal/repo/fsjson"
)

func newTestService(t *testing.T) *registryService {
	t.Helper()
	dir := t.TempDir()
	runs, err := fsjson.NewRunStore(dir)
	if err != nil {
		t.Fatalf("NewRunStore() err=%v", err)
	}
	testSets, err := fsjson.NewTestSetStore(dir)
	if err != nil {
		t.Fatalf("NewTestSetStore() err=%v", err)
	}
	return newRegistryService(runs, testSets)
}

func TestIngestRun_RecordsCreatedTimestamp(t *testing.T) {
	svc := newTestService(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	run, err := svc.IngestRun(context.Background(), []byte(`{"domainId":"d","scenarios":[{"sceneId":"s1"}]}`))
	if err != nil {
		t.Fatalf("IngestRun() err=%v", err)
	}
	if !run.Created.Equal(at) {
		t.Fatalf("Created=%v, want %v", run.Created, at)
	}

	stored, err := svc.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun() err=%v", err)
	}
	if !stored.Created.Equal(at) {
		t.Fatalf("stored Created=%v, want %v", stored.Created, at)
	}
}

func TestIngestRun_PreservesSuppliedCreated(t *testing.T) {
	svc := newTestService(t)
	run, err := svc.IngestRun(context.Background(),
		[]byte(`{"id":"r1","domainId":"d","scenarios":[],"created":"2025-11-02T08:00:00Z"}`))
	if err != nil {
		t.Fatalf("IngestRun() err=%v", err)
	}
	want := time.Date(2025, 11, 2, 8, 0, 0, 0, time.UTC)
	if !run.Created.Equal(want) {
		t.Fatalf("Created=%v, want %v", run.Created, want)
	}
}

func TestDeriveTestSet_PersistsDerivedSet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.IngestRun(ctx, []byte(`{"id":"r1","domainId":"norway-props","scenarios":[{"sceneId":"s1","twinId":"t1"}]}`)); err != nil {
		t.Fatalf("IngestRun() err=%v", err)
	}

	derived, err := svc.DeriveTestSet(ctx, "r1", "baseline-v1", "snapshot of r1", "1.0.0")
	if err != nil {
		t.Fatalf("DeriveTestSet() err=%v", err)
	}

	stored, err := svc.GetTestSet(ctx, "baseline-v1")
	if err != nil {
		t.Fatalf("GetTestSet() err=%v", err)
	}
	if stored.SourceRunID != "r1" || !stored.GenerateTwins || stored.ScenarioCount != 1 {
		t.Fatalf("stored=%+v", stored)
	}
	if !stored.Created.Equal(derived.Created) {
		t.Fatalf("stored Created=%v, derived Created=%v", stored.Created, derived.Created)
	}
}
