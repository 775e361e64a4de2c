package storage_test

import (
	"context"
	"errors"
	"testing"

	"code-reconciler/core/storage"
	"code-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "b").Return(true, nil)

		created, err := storage.EnsureBucket(ctx, m, "b", "")
		require.NoError(t, err)
		assert.False(t, created)
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "b").Return(false, nil)
		m.On("MakeBucket", ctx, "b", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

		created, err := storage.EnsureBucket(ctx, m, "b", "eu")
		require.NoError(t, err)
		assert.True(t, created)
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "b").Return(false, errors.New("unreachable"))

		_, err := storage.EnsureBucket(ctx, m, "b", "")
		assert.ErrorContains(t, err, "unreachable")
	})
}

func TestPutBytes(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("PutObject", ctx, "b", "exports/x.xlsx", mock.Anything, int64(3), minio.PutObjectOptions{ContentType: storage.XLSXContentType}).
		Return(minio.UploadInfo{Key: "exports/x.xlsx"}, nil)

	err := storage.PutBytes(ctx, m, "b", "exports/x.xlsx", []byte("abc"), storage.XLSXContentType)
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestCountObjects(t *testing.T) {
	ctx := context.Background()
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "exports/a.xlsx"}
	ch <- minio.ObjectInfo{Key: "exports/b.xlsx"}
	close(ch)

	m := new(mocks.Client)
	m.On("ListObjects", ctx, "b", minio.ListObjectsOptions{Prefix: "exports/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	n, err := storage.CountObjects(ctx, m, "b", "exports/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
