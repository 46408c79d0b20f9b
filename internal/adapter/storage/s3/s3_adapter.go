// Package s3 stores listing images and verification documents in MinIO.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"go.uber.org/zap"
)

type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewS3Storage creates the MinIO client and makes sure the bucket exists.
func NewS3Storage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log = log.Named("S3Storage")
	log.Info("Initializing S3 MinIO Storage", zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
		log.Info("Bucket already exists", zap.String("bucket", bucketName))
	} else {
		log.Info("Bucket created", zap.String("bucket", bucketName))
	}

	return &S3Storage{client: client, bucket: bucketName, logger: log}, nil
}

// Upload stores data under prefix with a random object name that keeps the
// original extension, and returns the object URL.
func (s *S3Storage) Upload(ctx context.Context, prefix, originalFileName string, data []byte) (string, error) {
	objectKey := ObjectKey(prefix, originalFileName)

	s.logger.Info("Uploading object",
		zap.String("bucket", s.bucket),
		zap.String("object_key", objectKey),
		zap.String("original_filename", originalFileName),
		zap.Int("size_bytes", len(data)))

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  http.DetectContentType(data),
		UserMetadata: map[string]string{"original-filename": originalFileName},
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, info.Key)
	s.logger.Info("Object uploaded", zap.String("url", fileURL), zap.Int64("size_uploaded", info.Size))
	return fileURL, nil
}

// ObjectKey builds "<prefix>/<uuid><ext>" with a lower-cased extension.
func ObjectKey(prefix, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return uuid.NewString() + ext
	}
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}
