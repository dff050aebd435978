// Package blobstore provides the storage abstraction behind calibration
// profiles.
//
// BlobStore is the interface for reading and writing whole blobs by name.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic writes via rename
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 (and S3-compatible endpoints) via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible servers via minio-go
//
// # Locations
//
// ParseLocation turns a profile argument into a store location:
//
//	profile.json.zst              local file
//	s3://bucket/runs/p.json       S3 object runs/p.json in bucket
//	minio://bucket/p.json.lz4     MinIO object p.json.lz4 in bucket
package blobstore
