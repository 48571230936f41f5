package objectstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kalibra-labs/kalibra-go/internal/platform/env"
)

type Config struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Region         string
	UseSSL         bool
	BucketRuns     string
	BucketTestSets string
}

func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("KALIBRA_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:       env.String("KALIBRA_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:      env.String("KALIBRA_MINIO_ACCESS_KEY", "kalibra"),
		SecretKey:      env.String("KALIBRA_MINIO_SECRET_KEY", "kalibraminio"),
		Region:         env.String("KALIBRA_MINIO_REGION", "us-east-1"),
		UseSSL:         useSSL,
		BucketRuns:     env.String("KALIBRA_MINIO_BUCKET_RUNS", "benchmark-runs"),
		BucketTestSets: env.String("KALIBRA_MINIO_BUCKET_TEST_SETS", "test-sets"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.BucketRuns) == "" {
		return errors.New("runs bucket is required")
	}
	if strings.TrimSpace(c.BucketTestSets) == "" {
		return errors.New("test sets bucket is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}
