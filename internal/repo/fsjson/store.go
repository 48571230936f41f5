// Package fsjson persists runs and test sets as one pretty-printed JSON
// document per identifier under a data directory.
package fsjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
	"github.com/kalibra-labs/kalibra-go/internal/repo"
)

const (
	runsDir     = "runs"
	testSetsDir = "test-sets"
)

var (
	_ repo.RunStore     = (*RunStore)(nil)
	_ repo.TestSetStore = (*TestSetStore)(nil)
)

// docStore is a directory of <key>.json documents. Writers are serialized by
// the mutex; writes go through a temp file plus rename so readers never see a
// partial document.
type docStore struct {
	dir string
	mu  sync.Mutex
}

func newDocStore(root, sub string) (*docStore, error) {
	dir := filepath.Join(root, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &docStore{dir: dir}, nil
}

func (s *docStore) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("document key is required")
	}
	if key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid document key: %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *docStore) create(key string, doc any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(path); err == nil {
		return repo.ErrAlreadyExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat document: %w", err)
	}
	return writeAtomic(path, data)
}

func (s *docStore) get(key string, dst any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("read document: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode document %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *docStore) delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *docStore) keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list store dir: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// RunStore is the filesystem-backed run store.
type RunStore struct {
	docs *docStore
}

func NewRunStore(root string) (*RunStore, error) {
	docs, err := newDocStore(root, runsDir)
	if err != nil {
		return nil, err
	}
	return &RunStore{docs: docs}, nil
}

func (s *RunStore) Create(ctx context.Context, run domain.BenchmarkRun) error {
	if err := run.Validate(); err != nil {
		return err
	}
	return s.docs.create(run.ID, run)
}

func (s *RunStore) Get(ctx context.Context, id string) (domain.BenchmarkRun, error) {
	var run domain.BenchmarkRun
	if err := s.docs.get(id, &run); err != nil {
		return domain.BenchmarkRun{}, err
	}
	return run, nil
}

func (s *RunStore) List(ctx context.Context) ([]domain.BenchmarkRun, error) {
	keys, err := s.docs.keys()
	if err != nil {
		return nil, err
	}
	runs := make([]domain.BenchmarkRun, 0, len(keys))
	for _, key := range keys {
		run, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *RunStore) Delete(ctx context.Context, id string) error {
	return s.docs.delete(id)
}

// TestSetStore is the filesystem-backed test-set store.
type TestSetStore struct {
	docs *docStore
}

func NewTestSetStore(root string) (*TestSetStore, error) {
	docs, err := newDocStore(root, testSetsDir)
	if err != nil {
		return nil, err
	}
	return &TestSetStore{docs: docs}, nil
}

func (s *TestSetStore) Create(ctx context.Context, set domain.TestSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	return s.docs.create(set.Name, set)
}

func (s *TestSetStore) Get(ctx context.Context, name string) (domain.TestSet, error) {
	var set domain.TestSet
	if err := s.docs.get(name, &set); err != nil {
		return domain.TestSet{}, err
	}
	return set, nil
}

func (s *TestSetStore) List(ctx context.Context) ([]domain.TestSet, error) {
	keys, err := s.docs.keys()
	if err != nil {
		return nil, err
	}
	sets := make([]domain.TestSet, 0, len(keys))
	for _, key := range keys {
		set, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (s *TestSetStore) Delete(ctx context.Context, name string) error {
	return s.docs.delete(name)
}
