// Package repo defines the document-store contracts for runs and test sets.
package repo

import (
	"context"
	"errors"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
)

var (
	// ErrNotFound is returned when no document exists for the id or name.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a create would overwrite an existing
	// document. Same-name races resolve to reject, never last-write-wins.
	ErrAlreadyExists = errors.New("already exists")
)

// RunStore manages persisted benchmark runs. Runs are immutable once saved.
type RunStore interface {
	Create(ctx context.Context, run domain.BenchmarkRun) error
	Get(ctx context.Context, id string) (domain.BenchmarkRun, error)
	List(ctx context.Context) ([]domain.BenchmarkRun, error)
	Delete(ctx context.Context, id string) error
}

// TestSetStore manages persisted test sets keyed by name.
type TestSetStore interface {
	Create(ctx context.Context, set domain.TestSet) error
	Get(ctx context.Context, name string) (domain.TestSet, error)
	List(ctx context.Context) ([]domain.TestSet, error)
	Delete(ctx context.Context, name string) error
}
