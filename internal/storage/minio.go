// minio.go
//
// Community missing-persons reporting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lookout.
// lookout is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lookout is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lookout.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/utils"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIO stores uploads in a MinIO or S3 compatible bucket
type MinIO struct {
	client         *minio.Client
	bucketName     string
	endpoint       string
	publicEndpoint string
	useSSL         bool
}

// NewMinIO creates the client and makes sure the bucket exists.
// An unreachable endpoint is logged, not fatal; uploads fail until it recovers.
func NewMinIO(ctx context.Context, cfg *config.Config) (*MinIO, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	publicEndpoint := strings.TrimSuffix(strings.TrimSpace(cfg.MinioPublicEndpoint), "/")
	if publicEndpoint == "" {
		publicEndpoint = cfg.MinioEndpoint
	}

	s := &MinIO{
		client:         client,
		bucketName:     cfg.MinioBucket,
		endpoint:       cfg.MinioEndpoint,
		publicEndpoint: publicEndpoint,
		useSSL:         cfg.MinioUseSSL,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, s.bucketName)
	switch {
	case err != nil:
		zap.S().Warnw("Failed to check bucket, continuing", "bucket", s.bucketName, "error", err)
	case !exists:
		if err := client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", s.bucketName, err)
		}
		// uploads are linked from public report pages
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Action":["s3:GetObject"],"Effect":"Allow","Principal":{"AWS":["*"]},"Resource":["arn:aws:s3:::%s/*"]}]}`, s.bucketName)
		if err := client.SetBucketPolicy(ctx, s.bucketName, policy); err != nil {
			zap.S().Errorw("Failed to set bucket policy", "bucket", s.bucketName, "error", err)
		}
		zap.S().Infow("Bucket created", "bucket", s.bucketName)
	}

	zap.S().Infow("MinIO storage initialized", "endpoint", s.endpoint, "public_endpoint", s.publicEndpoint, "bucket", s.bucketName)
	return s, nil
}

// Upload stores r under a fresh key and returns its public URL
func (s *MinIO) Upload(ctx context.Context, kind, filename, contentType string, r io.Reader, size int64) (Object, error) {
	key := ObjectKey(kind, filename, time.Now())

	_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload %s: %w", kind, err)
	}

	obj := Object{Key: key, URL: s.URL(key)}
	zap.S().Infow("Upload stored", "filename", filename, "key", obj.Key, "size", size)
	return obj, nil
}

// URL returns the public URL of an object key
func (s *MinIO) URL(key string) string {
	if strings.Contains(s.publicEndpoint, "://") {
		return fmt.Sprintf("%s/%s/%s", s.publicEndpoint, s.bucketName, key)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.publicEndpoint, s.bucketName, key)
}

// HealthCheck verifies the endpoint answers and the bucket exists
func (s *MinIO) HealthCheck(ctx context.Context) error {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	if err := utils.PingService(scheme+"://"+s.endpoint, 1500*time.Millisecond); err != nil {
		return fmt.Errorf("MinIO unreachable: %w", err)
	}

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("MinIO health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket '%s' does not exist", s.bucketName)
	}
	return nil
}
