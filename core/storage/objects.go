package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// XLSXContentType is the MIME type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EnsureBucket creates the bucket when it is missing.
// It reports whether the bucket had to be created.
func EnsureBucket(ctx context.Context, client Client, bucket, region string) (bool, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return false, nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return false, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return true, nil
}

// PutBytes uploads an in-memory payload.
func PutBytes(ctx context.Context, client Client, bucket, key string, data []byte, contentType string) error {
	_, err := client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// CountObjects counts the objects under a prefix.
func CountObjects(ctx context.Context, client Client, bucket, prefix string) (int, error) {
	count := 0
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return count, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		count++
	}
	return count, nil
}
