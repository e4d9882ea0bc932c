package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gymcore/internal/config"
)

// MediaService stores gym logos in object storage and hands out short-lived
// presigned download URLs.
type MediaService struct {
	client *minio.Client
	bucket string
}

func NewMediaService(cfg config.MinioConfig) (*MediaService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}
	return &MediaService{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the media bucket when it does not exist yet.
func (s *MediaService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %v", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %v", s.bucket, err)
	}
	log.Printf("Created media bucket %s", s.bucket)
	return nil
}

// UploadGymLogo stores the logo under a deterministic key and returns it.
func (s *MediaService) UploadGymLogo(ctx context.Context, gymID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("gyms/%s/logo", gymID)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo for gym %s: %v", gymID, err)
	}
	return key, nil
}

// PresignedLogoURL returns a time-limited GET URL for a stored logo key.
func (s *MediaService) PresignedLogoURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign logo url: %v", err)
	}
	return u.String(), nil
}
