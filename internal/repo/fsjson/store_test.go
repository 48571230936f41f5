package fsjson

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
	"github.com/kalibra-labs/kalibra-go/internal/repo"
)

func testRun(id string) domain.BenchmarkRun {
	return domain.BenchmarkRun{
		ID:       id,
		DomainID: "norway-props",
		Scenarios: []domain.Scenario{
			{"sceneId": "s1"},
			{"sceneId": "s2", "twinId": "t1"},
		},
	}
}

func TestRunStore_CreateGetDelete(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunStore() err=%v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, testRun("r1")); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	got, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if got.ID != "r1" || got.DomainID != "norway-props" {
		t.Fatalf("Get()=%+v", got)
	}
	if len(got.Scenarios) != 2 {
		t.Fatalf("Get() scenarios=%d, want 2", len(got.Scenarios))
	}
	if got.Scenarios[1].TwinID() != "t1" {
		t.Fatalf("Get() twinId=%q, want t1", got.Scenarios[1].TwinID())
	}

	if err := store.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	if _, err := store.Get(ctx, "r1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Get() after delete err=%v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "r1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Delete() twice err=%v, want ErrNotFound", err)
	}
}

func TestRunStore_CreateRejectsDuplicate(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunStore() err=%v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, testRun("r1")); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := store.Create(ctx, testRun("r1")); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Fatalf("Create() twice err=%v, want ErrAlreadyExists", err)
	}
}

func TestRunStore_Get_Missing(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunStore() err=%v", err)
	}
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Get() err=%v, want ErrNotFound", err)
	}
}

func TestRunStore_RejectsPathTraversalKeys(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunStore() err=%v", err)
	}
	if _, err := store.Get(context.Background(), "../escape"); err == nil || errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Get() err=%v, want key validation error", err)
	}
}

func TestRunStore_List_Sorted(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunStore() err=%v", err)
	}
	ctx := context.Background()
	for _, id := range []string{"r2", "r1", "r3"} {
		if err := store.Create(ctx, testRun(id)); err != nil {
			t.Fatalf("Create(%s) err=%v", id, err)
		}
	}

	runs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	if strings.Join(ids, ",") != "r1,r2,r3" {
		t.Fatalf("List() ids=%v, want [r1 r2 r3]", ids)
	}
}

func TestTestSetStore_RoundTrip(t *testing.T) {
	store, err := NewTestSetStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewTestSetStore() err=%v", err)
	}
	ctx := context.Background()

	set := domain.TestSet{
		Name:          "baseline-v1",
		Version:       "1.0.0",
		Description:   "frozen from r1",
		DomainID:      "norway-props",
		ScenarioCount: 1,
		SourceRunID:   "r1",
		Scenarios:     []domain.Scenario{{"sceneId": "s1"}},
	}
	if err := store.Create(ctx, set); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := store.Create(ctx, set); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Fatalf("Create() twice err=%v, want ErrAlreadyExists", err)
	}

	got, err := store.Get(ctx, "baseline-v1")
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if got.SourceRunID != "r1" || got.ScenarioCount != 1 {
		t.Fatalf("Get()=%+v", got)
	}
	if got.Seed != nil {
		t.Fatalf("Get() seed=%v, want nil", *got.Seed)
	}
}

func TestTestSetStore_Create_RejectsCountMismatch(t *testing.T) {
	store, err := NewTestSetStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewTestSetStore() err=%v", err)
	}
	set := domain.TestSet{
		Name:          "bad",
		Version:       "1.0.0",
		ScenarioCount: 5,
		Scenarios:     []domain.Scenario{{"sceneId": "s1"}},
	}
	if err := store.Create(context.Background(), set); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestTestSetStore_PersistsNullSeed(t *testing.T) {
	root := t.TempDir()
	store, err := NewTestSetStore(root)
	if err != nil {
		t.Fatalf("NewTestSetStore() err=%v", err)
	}
	set := domain.TestSet{
		Name:          "baseline-v1",
		Version:       "1.0.0",
		ScenarioCount: 0,
		Scenarios:     []domain.Scenario{},
	}
	if err := store.Create(context.Background(), set); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	raw, err := os.ReadFile(filepath.Join(root, "test-sets", "baseline-v1.json"))
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if !strings.Contains(string(raw), "\"seed\": null") {
		t.Fatalf("document missing explicit null seed:\n%s", raw)
	}
}
