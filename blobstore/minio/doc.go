// Package minio stores run output on MinIO and other S3-compatible servers
// (Ceph, Garage, SeaweedFS) through the native MinIO client.
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "datasets", "wiki-bfs")
//
// It needs no AWS configuration, which suits air-gapped clusters.
package minio
