package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	appconfig "eventhub/core/config"
	"eventhub/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageResolver turns stored cover-image object keys into displayable URLs.
// An empty or missing key resolves to the bundled placeholder.
type ImageResolver interface {
	ResolveImageURL(key string) string
	PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error)
}

type S3Storage struct {
	client      *s3.Client
	presign     *s3.PresignClient
	bucket      string
	endpoint    string
	region      string
	placeholder string
}

func NewS3Storage(cfg appconfig.StorageConfig) *S3Storage {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		BaseEndpoint: endpointOrNil(cfg.Endpoint),
	})

	return &S3Storage{
		client:      client,
		presign:     s3.NewPresignClient(client),
		bucket:      cfg.Bucket,
		endpoint:    cfg.Endpoint,
		region:      cfg.Region,
		placeholder: cfg.PlaceholderImageURL,
	}
}

func endpointOrNil(endpoint string) *string {
	if endpoint == "" {
		return nil
	}
	return aws.String(endpoint)
}

// ResolveImageURL maps an object key to its public URL. Keys that are already
// absolute URLs pass through untouched so externally hosted covers keep
// working.
func (s *S3Storage) ResolveImageURL(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.placeholder
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// PresignUpload returns a short-lived PUT URL for admin cover uploads.
func (s *S3Storage) PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		logger.Error("S3Storage:PresignUpload:Error:", err)
		return "", err
	}
	return req.URL, nil
}
