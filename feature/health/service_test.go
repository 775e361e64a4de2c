package health

import (
	"context"
	"errors"
	"testing"

	"code-reconciler/core/database"
	"code-reconciler/core/storage"
	"code-reconciler/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	testStorage = storage.Config{Bucket: "test-bucket", Region: "us-east-1"}
	testSchema  = Schema{Table: "runs", Columns: []string{"id", "export_key"}}
)

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestService_CheckStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Healthy", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objects("exports/a.xlsx", "exports/b.xlsx"))

		svc := NewService(mockClient, testStorage, "exports", zap.NewNop(), nil, testSchema)
		r := svc.CheckStorage(ctx)
		assert.Equal(t, StatusOK, r.Status)
		assert.Equal(t, "exports/", r.Prefix)
		assert.Equal(t, 2, r.Exports)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

		r := NewService(mockClient, testStorage, "exports/", zap.NewNop(), nil, testSchema).CheckStorage(ctx)
		assert.Equal(t, StatusDegraded, r.Status)
		assert.False(t, r.Exists)
	})

	t.Run("Unreachable", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, errors.New("dial tcp: refused"))

		r := NewService(mockClient, testStorage, "exports/", zap.NewNop(), nil, testSchema).CheckStorage(ctx)
		assert.Equal(t, StatusError, r.Status)
		assert.Contains(t, r.Error, "refused")
	})
}

func TestService_FixStorage(t *testing.T) {
	ctx := context.Background()
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil).Once()
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", minio.ListObjectsOptions{Prefix: "exports/", MaxKeys: 1}).Return(objects())
	mockClient.On("PutObject", mock.Anything, "test-bucket", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", minio.ListObjectsOptions{Prefix: "exports/", Recursive: true}).Return(objects("exports/"))

	svc := NewService(mockClient, testStorage, "exports/", zap.NewNop(), nil, testSchema)
	r, err := svc.FixStorage(ctx)
	require.NoError(t, err)
	assert.True(t, r.Created)
	assert.Equal(t, StatusOK, r.Status)
	mockClient.AssertExpectations(t)
}

func TestService_CheckDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		r := NewService(nil, testStorage, "exports/", zap.NewNop(), nil, testSchema).CheckDatabase(ctx)
		assert.Equal(t, StatusDisabled, r.Status)
	})

	t.Run("TableMissing", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)

		r := NewService(nil, testStorage, "exports/", zap.NewNop(), db, testSchema).CheckDatabase(ctx)
		assert.Equal(t, StatusDegraded, r.Status)
		assert.Equal(t, "sqlite", r.Driver)
		assert.Equal(t, []string{"id", "export_key"}, r.MissingColumns)
	})

	t.Run("ColumnMissing", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.Exec("CREATE TABLE runs (id TEXT PRIMARY KEY)").Error)

		r := NewService(nil, testStorage, "exports/", zap.NewNop(), db, testSchema).CheckDatabase(ctx)
		assert.Equal(t, StatusDegraded, r.Status)
		assert.Equal(t, []string{"export_key"}, r.MissingColumns)
	})

	t.Run("Healthy", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.Exec("CREATE TABLE runs (id TEXT PRIMARY KEY, export_key TEXT)").Error)

		r := NewService(nil, testStorage, "exports/", zap.NewNop(), db, testSchema).CheckDatabase(ctx)
		assert.Equal(t, StatusOK, r.Status)
		assert.Empty(t, r.MissingColumns)
	})

	t.Run("PingFails", func(t *testing.T) {
		sqlDB, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		sqlMock.ExpectPing()
		sqlMock.ExpectPing().WillReturnError(errors.New("server has gone away"))

		db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
		require.NoError(t, err)

		r := NewService(nil, testStorage, "exports/", zap.NewNop(), db, testSchema).CheckDatabase(ctx)
		assert.Equal(t, StatusError, r.Status)
		assert.Contains(t, r.Error, "gone away")
	})
}

func TestService_Check(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objects())

	r := NewService(mockClient, testStorage, "exports/", zap.NewNop(), nil, testSchema).Check(context.Background())
	assert.Equal(t, StatusOK, r.Status)
	assert.Equal(t, StatusDisabled, r.Database.Status)
}
