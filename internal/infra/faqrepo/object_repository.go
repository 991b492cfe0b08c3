package faqrepo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

// ObjectOptions configures an S3-compatible knowledge base location.
type ObjectOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// ObjectRepository keeps the knowledge base as a JSON object in an
// S3-compatible bucket (R2, MinIO, S3).
type ObjectRepository struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectRepository constructs the repository.
func NewObjectRepository(opts ObjectOptions, logger *slog.Logger) (*ObjectRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("object bucket is required")
	}
	if opts.Key == "" {
		opts.Key = "faqs.json"
	}
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object client: %w", err)
	}
	return &ObjectRepository{
		client: client,
		bucket: opts.Bucket,
		key:    opts.Key,
		logger: logger.With("component", "faqrepo.object"),
	}, nil
}

// List implements faq.Repository. A missing object yields an empty knowledge base.
func (r *ObjectRepository) List(ctx context.Context) ([]faq.Entry, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, r.key, minio.GetObjectOptions{})
	if err != nil {
		if isMissingObject(err) {
			return []faq.Entry{}, nil
		}
		return nil, err
	}
	defer obj.Close()
	payload, err := io.ReadAll(obj)
	if err != nil {
		if isMissingObject(err) {
			return []faq.Entry{}, nil
		}
		return nil, fmt.Errorf("read faq object: %w", err)
	}
	return decodeEntries(payload)
}

// Save implements faq.Repository.
func (r *ObjectRepository) Save(ctx context.Context, entries []faq.Entry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}
	info, err := r.client.PutObject(ctx, r.bucket, r.key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("put faq object: %w", err)
	}
	r.logger.Debug("faq object saved", "bucket", r.bucket, "key", r.key, "etag", info.ETag, "entries", len(entries))
	return nil
}

func (r *ObjectRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err == nil && exists {
		return nil
	}
	err = r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func isMissingObject(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

// sanitizeEndpoint strips the scheme and path, which minio.New rejects.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ faq.Repository = (*ObjectRepository)(nil)
