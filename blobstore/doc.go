// Package blobstore abstracts where a run's shards and manifest are stored.
//
// Store is the interface for writing and reading named blobs. All
// implementations are safe for concurrent use and make Put atomic, which is
// what lets a failed run leave no shard in a visibly complete state.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, temp file + fsync + rename
//   - MemoryStore: in-memory, for tests and dry runs
//   - s3.Store: Amazon S3 via the multipart upload manager
//   - s3.CommitStore: S3 plus a DynamoDB claim on the run manifest
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error // atomic
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
