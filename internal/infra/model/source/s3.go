package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config points at a model artefact in S3-compatible storage.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	Key       string
}

// ObjectSource downloads the artefact from an S3-compatible bucket (R2, MinIO, S3).
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs the storage adapter.
func NewObjectSource(cfg S3Config) (*ObjectSource, error) {
	if strings.TrimSpace(cfg.Bucket) == "" || strings.TrimSpace(cfg.Key) == "" {
		return nil, fmt.Errorf("model bucket and key are required")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &ObjectSource{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before decoding starts.
	if _, statErr := obj.Stat(); statErr != nil {
		obj.Close()
		return nil, fmt.Errorf("stat model object: %w", statErr)
	}
	return obj, nil
}

func (s *ObjectSource) Describe() string { return "s3://" + s.bucket + "/" + s.key }

var _ Source = (*ObjectSource)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
