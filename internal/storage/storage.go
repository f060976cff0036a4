// Package storage uploads recipe and shop images to an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"keyiflimasa/internal/config"
)

// MaxImageSize caps uploaded image bodies.
const MaxImageSize = 5 << 20

var (
	ErrNotConfigured     = errors.New("storage: image storage is not configured")
	ErrUnsupportedFormat = errors.New("storage: only jpeg, png and webp images are accepted")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore persists an image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// ImageKey builds an object key such as recipes/12/3f1c....jpg. Unsupported
// content types yield ErrUnsupportedFormat.
func ImageKey(folder string, profileID uint, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrUnsupportedFormat
	}
	return path.Join(folder, fmt.Sprint(profileID), uuid.NewString()+ext), nil
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Store writes objects to a Cloudflare R2 bucket through the S3 API.
type R2Store struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewR2Store builds a client for the configured endpoint. It returns
// ErrNotConfigured when credentials or bucket are missing.
func NewR2Store(ctx context.Context, cfg config.StorageConfig) (*R2Store, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &R2Store{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (r *R2Store) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return r.baseURL + "/" + key, nil
}
