package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/blobstore/minio"
	"github.com/hupe1980/linkweave/blobstore/s3"
	"github.com/hupe1980/linkweave/shard"
)

// output is a parsed --output location.
type output struct {
	scheme string // "", "s3" or "minio"
	bucket string
	prefix string
	path   string
}

func parseOutput(uri string) (output, error) {
	if uri == "" {
		return output{}, fmt.Errorf("empty output location")
	}
	if !strings.Contains(uri, "://") {
		return output{path: uri}, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return output{}, fmt.Errorf("invalid output %q: %w", uri, err)
	}
	switch u.Scheme {
	case "s3", "minio":
	case "file":
		return output{path: u.Path}, nil
	default:
		return output{}, fmt.Errorf("unsupported output scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return output{}, fmt.Errorf("output %q has no bucket", uri)
	}
	return output{scheme: u.Scheme, bucket: u.Host, prefix: strings.Trim(u.Path, "/")}, nil
}

func (o output) String() string {
	if o.scheme == "" {
		return o.path
	}
	return o.scheme + "://" + o.bucket + "/" + o.prefix
}

// minioConfigFromEnv reads the MinIO endpoint and credentials.
func minioConfigFromEnv() (minio.Config, error) {
	cfg := minio.Config{
		Endpoint:  os.Getenv("LINKWEAVE_MINIO_ENDPOINT"),
		AccessKey: os.Getenv("LINKWEAVE_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("LINKWEAVE_MINIO_SECRET_KEY"),
		Region:    os.Getenv("LINKWEAVE_MINIO_REGION"),
		Secure:    os.Getenv("LINKWEAVE_MINIO_INSECURE") == "",
	}
	if cfg.Endpoint == "" {
		return cfg, fmt.Errorf("minio output requires LINKWEAVE_MINIO_ENDPOINT")
	}
	return cfg, nil
}

// openStore opens the blob store of an output. For S3 outputs a non-empty
// commitTable guards the manifest with a DynamoDB conditional write.
func openStore(ctx context.Context, o output, commitTable string) (blobstore.Store, error) {
	switch o.scheme {
	case "s3":
		store, err := s3.New(ctx, o.bucket, o.prefix)
		if err != nil {
			return nil, err
		}
		if commitTable == "" {
			return store, nil
		}
		ddb, err := s3.NewDDBClient(ctx)
		if err != nil {
			return nil, err
		}
		return s3.NewCommitStore(store, ddb, commitTable, o.String(), shard.ManifestName), nil
	case "minio":
		cfg, err := minioConfigFromEnv()
		if err != nil {
			return nil, err
		}
		return minio.New(cfg, o.bucket, o.prefix)
	}
	if commitTable != "" {
		return nil, fmt.Errorf("--commit-table requires an s3:// output")
	}
	return blobstore.NewLocalStore(o.path), nil
}
