// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so uploaded workbooks and reconciliation
// exports can live in AWS S3 or a self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions in unit tests (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the target bucket when missing.
//   - PutBytes: uploads an in-memory export.
//   - CountObjects: counts stored objects under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
