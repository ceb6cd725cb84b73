// Package s3 stores run output in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "datasets/wiki-bfs")
//	w := shard.NewWriter(store)
//
// Wrap the store in a CommitStore to make sure only one run ever commits a
// manifest under an output URI:
//
//	ddb, err := s3.NewDDBClient(ctx)
//	guarded := s3.NewCommitStore(store, ddb, "linkweave-commits",
//	    "s3://my-bucket/datasets/wiki-bfs", shard.ManifestName)
package s3
