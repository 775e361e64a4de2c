package health

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"code-reconciler/core/database"
	"code-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status values of a report.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDisabled = "disabled"
	StatusError    = "error"
)

// Schema names the table the database check verifies.
type Schema struct {
	Table   string
	Columns []string
}

// StorageReport describes the export bucket.
type StorageReport struct {
	Status  string `json:"status"`
	Bucket  string `json:"bucket"`
	Exists  bool   `json:"exists"`
	Prefix  string `json:"prefix"`
	Exports int    `json:"exports"`
	// Created is set when a fix created the bucket.
	Created bool   `json:"created,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DatabaseReport describes the run history database.
type DatabaseReport struct {
	Status         string   `json:"status"`
	Driver         string   `json:"driver,omitempty"`
	Table          string   `json:"table,omitempty"`
	MissingColumns []string `json:"missingColumns,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Report combines all checks.
type Report struct {
	Status   string         `json:"status"`
	Storage  StorageReport  `json:"storage"`
	Database DatabaseReport `json:"database"`
}

// Service runs health checks.
type Service struct {
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger
	db     *gorm.DB
	schema Schema
}

// NewService creates a new health service. A nil db reports the database as disabled.
func NewService(client storage.Client, cfg storage.Config, prefix string, logger *zap.Logger, db *gorm.DB, schema Schema) *Service {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Service{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: prefix,
		logger: logger,
		db:     db,
		schema: schema,
	}
}

// Check runs every check.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{
		Storage:  s.CheckStorage(ctx),
		Database: s.CheckDatabase(ctx),
	}
	r.Status = StatusOK
	if r.Storage.Status != StatusOK || r.Database.Status == StatusError || r.Database.Status == StatusDegraded {
		r.Status = StatusDegraded
	}
	return r
}

// CheckStorage reports whether the bucket exists and how many exports it holds.
func (s *Service) CheckStorage(ctx context.Context) StorageReport {
	r := StorageReport{Bucket: s.bucket, Prefix: s.prefix}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		r.Status = StatusError
		r.Error = err.Error()
		return r
	}
	r.Exists = exists
	if !exists {
		r.Status = StatusDegraded
		return r
	}

	n, err := storage.CountObjects(ctx, s.client, s.bucket, s.prefix)
	if err != nil {
		r.Status = StatusError
		r.Error = err.Error()
		return r
	}
	r.Exports = n
	r.Status = StatusOK
	return r
}

// FixStorage creates the bucket and the export prefix marker when missing.
func (s *Service) FixStorage(ctx context.Context) (StorageReport, error) {
	created, err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region)
	if err != nil {
		return StorageReport{Bucket: s.bucket, Status: StatusError, Error: err.Error()}, err
	}
	if created {
		s.logger.Info("Created bucket", zap.String("bucket", s.bucket))
	}

	found := false
	for range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix, MaxKeys: 1}) {
		found = true
		break
	}
	if !found {
		if _, err := s.client.PutObject(ctx, s.bucket, s.prefix, bytes.NewReader(nil), 0, minio.PutObjectOptions{}); err != nil {
			s.logger.Error("Failed to create export prefix", zap.String("prefix", s.prefix), zap.Error(err))
			return StorageReport{Bucket: s.bucket, Status: StatusError, Error: err.Error()}, err
		}
		s.logger.Info("Created export prefix", zap.String("prefix", s.prefix))
	}

	r := s.CheckStorage(ctx)
	r.Created = created
	return r, nil
}

// CheckDatabase pings the database and verifies the history table.
func (s *Service) CheckDatabase(ctx context.Context) DatabaseReport {
	if s.db == nil {
		return DatabaseReport{Status: StatusDisabled}
	}

	r := DatabaseReport{Driver: s.db.Dialector.Name(), Table: s.schema.Table}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		r.Status = StatusError
		r.Error = err.Error()
		return r
	}

	if s.schema.Table == "" {
		r.Status = StatusOK
		return r
	}

	missing, err := database.MissingColumns(s.db, s.schema.Table, s.schema.Columns)
	switch {
	case errors.Is(err, database.ErrTableNotFound):
		r.Status = StatusDegraded
		r.MissingColumns = s.schema.Columns
	case err != nil:
		r.Status = StatusError
		r.Error = err.Error()
	case len(missing) > 0:
		r.Status = StatusDegraded
		r.MissingColumns = missing
	default:
		r.Status = StatusOK
	}
	return r
}
