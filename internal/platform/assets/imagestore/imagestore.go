// Package imagestore provides object storage for user-uploaded images.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store uploads image blobs and returns their public URLs.
type Store interface {
	Upload(ctx context.Context, path string, blob []byte, contentType string) (string, error)
}

// s3API is the subset of the S3 client used by S3Store, extracted for tests.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores images in an S3-compatible bucket.
type S3Store struct {
	client        s3API
	bucket        string
	publicBaseURL string
}

// S3Config carries the bucket settings for NewS3.
type S3Config struct {
	Bucket        string
	Region        string
	BaseEndpoint  string // optional, for S3-compatible providers
	PublicBaseURL string // prefix for returned public URLs
}

// NewS3 creates an S3-backed image store using the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the blob to the bucket and returns the object's public URL.
func (s *S3Store) Upload(ctx context.Context, path string, blob []byte, contentType string) (string, error) {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", fmt.Errorf("object path is required")
	}
	if len(blob) == 0 {
		return "", fmt.Errorf("blob is empty")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", path, err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + path, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, path), nil
}
