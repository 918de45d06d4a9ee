// Package minio provides a MinIO (S3-compatible) implementation of
// artifact.Store. Objects are stored under the key layout
// {jobID}/artifacts/{name} inside a single bucket, matching the layout the
// scan pipeline uses when it uploads raw scanner output.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/reportmesh/artifact"
)

// Config holds the MinIO connection settings.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
}

// GetConfigFromEnv loads MinIO configuration from environment variables.
func GetConfigFromEnv() *Config {
	return &Config{
		Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKeyID:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretAccessKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		UseSSL:          os.Getenv("MINIO_USE_SSL") == "true",
		Bucket:          getEnv("MINIO_DEFAULT_BUCKET", "reportmesh"),
	}
}

// Store implements artifact.Store on top of a MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
}

var _ artifact.Store = (*Store)(nil)

// New connects to MinIO and ensures the configured bucket exists.
func New(cfg *Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// NewFromClient wraps an existing MinIO client without bucket bootstrap.
func NewFromClient(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

func objectName(jobID, name string) string {
	return fmt.Sprintf("%s/artifacts/%s", jobID, name)
}

// Get reads the full artifact content. Missing objects map to
// artifact.ErrNotFound so callers can treat absence as data, not failure.
func (s *Store) Get(ctx context.Context, jobID, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName(jobID, name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting object %s: %w", objectName(jobID, name), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", objectName(jobID, name), artifact.ErrNotFound)
		}
		return nil, fmt.Errorf("reading object %s: %w", objectName(jobID, name), err)
	}
	return data, nil
}

// Put stores the artifact bytes with the given content type.
func (s *Store) Put(ctx context.Context, jobID, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName(jobID, name),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("writing object %s: %w", objectName(jobID, name), err)
	}
	return nil
}

// List returns the artifacts stored under the job's namespace with the
// prefix stripped, so callers see bare artifact names.
func (s *Store) List(ctx context.Context, jobID string) ([]artifact.Info, error) {
	prefix := fmt.Sprintf("%s/artifacts/", jobID)
	var infos []artifact.Info
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing artifacts for job %q: %w", jobID, obj.Err)
		}
		infos = append(infos, artifact.Info{
			Name: strings.TrimPrefix(obj.Key, prefix),
			Size: obj.Size,
		})
	}
	return infos, nil
}

// Delete removes the artifact object.
func (s *Store) Delete(ctx context.Context, jobID, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName(jobID, name), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", objectName(jobID, name), err)
	}
	return nil
}

// isNotFound detects the S3 NoSuchKey condition surfaced by minio-go.
func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.StatusCode == 404
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
