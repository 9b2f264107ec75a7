package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"aideo-backend/internal/shared/storage/object"
	"aideo-backend/internal/shared/telemetry"
)

// Store implements object.ObjectStore against S3 or an S3-compatible endpoint
// such as MinIO.
type Store struct {
	client   *s3.Client
	presign  *s3.PresignClient
	endpoint string
	bucket   string
}

// Config carries the S3 connection settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// New builds an S3-backed store. When Endpoint is set (MinIO), path-style
// addressing is forced.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Store{
		client:   client,
		presign:  s3.NewPresignClient(client),
		endpoint: endpoint,
		bucket:   cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. "Already exists"
// is success; anything else aborts startup.
func (s *Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *s3types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		var exists *s3types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	telemetry.Info("storage.bucket_created", map[string]any{"bucket": s.bucket})
	return nil
}

// Put uploads data under a freshly derived key and returns the blob locator.
func (s *Store) Put(ctx context.Context, ownerID, fileName, contentType string, data []byte) (string, error) {
	key := object.DeriveKey(ownerID, fileName)

	putCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := s.client.PutObject(putCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3 put bucket=%s key=%s: %v", object.ErrWriteFailed, s.bucket, key, err)
	}

	return object.Locator(s.endpoint, s.bucket, key), nil
}

// PresignGet returns a time-boxed GET URL for the blob behind locator.
func (s *Store) PresignGet(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	key := object.KeyFromLocator(locator, s.endpoint, s.bucket)
	if key == "" {
		return "", fmt.Errorf("locator %q does not belong to bucket %s", locator, s.bucket)
	}

	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return out.URL, nil
}

// Delete removes the blob behind locator. Unknown keys are a no-op; other
// failures are returned so the caller can log them, but document deletion
// never depends on this succeeding.
func (s *Store) Delete(ctx context.Context, locator string) error {
	key := object.KeyFromLocator(locator, s.endpoint, s.bucket)
	if key == "" {
		telemetry.Warn("storage.delete_skip", map[string]any{"locator": locator})
		return nil
	}

	delCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(delCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil
		}
		return fmt.Errorf("s3 delete bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return nil
}

var _ object.ObjectStore = (*Store)(nil)
