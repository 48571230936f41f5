// Package objectstore implements the run and test-set stores over an
// S3-compatible object store, one JSON object per document.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
	platformstore "github.com/kalibra-labs/kalibra-go/internal/platform/objectstore"
	"github.com/kalibra-labs/kalibra-go/internal/repo"
)

var (
	_ repo.RunStore     = (*RunStore)(nil)
	_ repo.TestSetStore = (*TestSetStore)(nil)
)

type docStore struct {
	client *minio.Client
	bucket string
}

func (s docStore) key(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("document key is required")
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("invalid document key: %q", name)
	}
	return name + ".json", nil
}

func (s docStore) create(ctx context.Context, name string, doc any) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return repo.ErrAlreadyExists
	}
	if !isNoSuchKey(err) {
		return fmt.Errorf("stat object: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: "application/json"}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s docStore) get(ctx context.Context, name string, dst any) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object: %w", err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("read object: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode document %s: %w", key, err)
	}
	return nil
}

func (s docStore) delete(ctx context.Context, name string) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("stat object: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s docStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}
		if !strings.HasSuffix(info.Key, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(info.Key, ".json"))
	}
	return keys, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// RunStore is the object-store-backed run store.
type RunStore struct {
	docs docStore
}

func NewRunStore(client *minio.Client, cfg platformstore.Config) (*RunStore, error) {
	if client == nil {
		return nil, errors.New("minio client is required")
	}
	return &RunStore{docs: docStore{client: client, bucket: cfg.BucketRuns}}, nil
}

func (s *RunStore) Create(ctx context.Context, run domain.BenchmarkRun) error {
	if err := run.Validate(); err != nil {
		return err
	}
	return s.docs.create(ctx, run.ID, run)
}

func (s *RunStore) Get(ctx context.Context, id string) (domain.BenchmarkRun, error) {
	var run domain.BenchmarkRun
	if err := s.docs.get(ctx, id, &run); err != nil {
		return domain.BenchmarkRun{}, err
	}
	return run, nil
}

func (s *RunStore) List(ctx context.Context) ([]domain.BenchmarkRun, error) {
	keys, err := s.docs.keys(ctx)
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
	return s.docs.delete(ctx, id)
}

// TestSetStore is the object-store-backed test-set store.
type TestSetStore struct {
	docs docStore
}

func NewTestSetStore(client *minio.Client, cfg platformstore.Config) (*TestSetStore, error) {
	if client == nil {
		return nil, errors.New("minio client is required")
	}
	return &TestSetStore{docs: docStore{client: client, bucket: cfg.BucketTestSets}}, nil
}

func (s *TestSetStore) Create(ctx context.Context, set domain.TestSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	return s.docs.create(ctx, set.Name, set)
}

func (s *TestSetStore) Get(ctx context.Context, name string) (domain.TestSet, error) {
	var set domain.TestSet
	if err := s.docs.get(ctx, name, &set); err != nil {
		return domain.TestSet{}, err
	}
	return set, nil
}

func (s *TestSetStore) List(ctx context.Context) ([]domain.TestSet, error) {
	keys, err := s.docs.keys(ctx)
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
	return s.docs.delete(ctx, name)
}
