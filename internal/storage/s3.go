package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"app/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
)

// ObjectStore is the file half of the remote backend: put bytes under a
// bucket/path and get back a publicly resolvable URL, or remove them again.
type ObjectStore interface {
	Put(ctx context.Context, bucket, path string, body io.Reader, contentType string) (string, error)
	// Remove deletes an object. Absence is not an error.
	Remove(ctx context.Context, bucket, path string) error
}

type s3Store struct {
	client        *s3.Client
	publicURLBase string
}

// NewS3Store wraps an S3 client as an ObjectStore. publicURLBase is the
// prefix public object URLs are built from, e.g.
// https://<project>.supabase.co/storage/v1/object/public
func NewS3Store(client *s3.Client, publicURLBase string) ObjectStore {
	return &s3Store{
		client:        client,
		publicURLBase: strings.TrimRight(publicURLBase, "/"),
	}
}

// NewClient builds an S3 client pointed at the Supabase storage endpoint.
func NewClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// Put stores the object and returns its public URL
func (s *s3Store) Put(ctx context.Context, bucket, path string, body io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object %s/%s: %w", bucket, path, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURLBase, bucket, path), nil
}

// Remove deletes the object. S3 DeleteObject succeeds for absent keys, which
// matches the idempotency this system wants.
func (s *s3Store) Remove(ctx context.Context, bucket, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to remove object %s/%s: %w", bucket, path, err)
	}
	return nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
