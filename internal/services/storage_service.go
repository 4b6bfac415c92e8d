// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/procurehub/orders-backend/internal/config"
)

// StorageService archives raw partner feed documents. Uploads go to S3 when
// credentials are configured, otherwise to local disk. Archival is
// best-effort; the importer never fails on it.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if !cfg.Storage.UseS3 || cfg.Storage.AccessKeyID == "" {
		// Local storage for development
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Storage.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// ArchiveFeed stores the raw document and returns its storage key.
func (s *StorageService) ArchiveFeed(shopName string, raw []byte) (string, error) {
	key := s.feedKey(shopName)

	if s.s3Client != nil {
		_, err := s.s3Client.PutObject(&s3.PutObjectInput{
			Bucket:      aws.String(s.config.Storage.S3Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(raw),
			ContentType: aws.String("application/x-yaml"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload feed to S3: %w", err)
		}
		return key, nil
	}

	path := filepath.Join(s.config.Storage.LocalPath, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create feed archive directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write feed archive: %w", err)
	}
	return key, nil
}

func (s *StorageService) feedKey(shopName string) string {
	slug := strings.ToLower(strings.ReplaceAll(shopName, " ", "-"))
	return fmt.Sprintf("feeds/%s/%s_%s.yaml", slug, time.Now().UTC().Format("20060102T150405"), uuid.New().String()[:8])
}
