package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"claimhub/internal/config"
	apperrors "claimhub/internal/errors"
)

// AttachmentStore persists claim receipts in object storage. The core only
// validates size and type metadata before handing the byte stream over.
type AttachmentStore interface {
	Store(ctx context.Context, suggestedName, contentType string, body io.Reader) (key string, err error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// S3Store implements AttachmentStore on any S3-compatible bucket.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3Store builds an S3 attachment store from config. A custom endpoint
// supports S3-compatible providers (R2, MinIO).
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
	}, nil
}

// Store uploads a receipt under a collision-free key derived from the
// suggested name and returns the key.
func (s *S3Store) Store(ctx context.Context, suggestedName, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("receipts/%s%s", uuid.New().String(), filepath.Ext(suggestedName))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperrors.NewStorageError("put", err)
	}
	return key, nil
}

// PresignGet returns a time-limited download URL for a stored receipt.
func (s *S3Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", apperrors.NewStorageError("presign", err)
	}
	return req.URL, nil
}
