package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"furnish-must/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageStore persists uploaded product and category images and returns a
// public URL for the stored object.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// s3Store stores images in an S3-compatible bucket. Works with AWS S3,
// MinIO, DigitalOcean Spaces, and Cloudflare R2.
type s3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store builds an ImageStore from the storage configuration.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: S3_BUCKET is not configured")
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}

	// Static credentials are required for MinIO / R2 / Spaces
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &s3Store{
		client:  s3.NewFromConfig(awsConfig, clientOpts...),
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// Upload stores the object and returns its public URL.
func (s *s3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
