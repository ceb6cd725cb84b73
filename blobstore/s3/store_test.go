package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/internal/hash"
)

func TestStorePut(t *testing.T) {
	client := newMockS3Client()
	store := NewStore(client, "bucket", "/runs/bfs/")

	require.NoError(t, store.Put(context.Background(), "shard-00000.jsonl.zst", []byte("payload")))

	data, ok := client.uploaded("runs/bfs/shard-00000.jsonl.zst")
	require.True(t, ok)
	assert.Equal(t, "payload", string(data))
}

func TestStoreOpen(t *testing.T) {
	client := newMockS3Client()
	store := NewStore(client, "bucket", "prefix")

	t.Run("NotFound", func(t *testing.T) {
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return aws.ToString(in.Key) == "prefix/missing"
		})).Return(nil, &types.NoSuchKey{}).Once()

		_, err := store.Open(context.Background(), "missing")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return aws.ToString(in.Bucket) == "bucket" && aws.ToString(in.Key) == "prefix/manifest.json"
		})).Return(&s3.GetObjectOutput{
			Body:          io.NopCloser(strings.NewReader("{}")),
			ContentLength: aws.Int64(2),
		}, nil).Once()

		data, err := blobstore.ReadAll(context.Background(), store, "manifest.json")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	client.AssertExpectations(t)
}

func TestStoreDelete(t *testing.T) {
	client := newMockS3Client()
	store := NewStore(client, "bucket", "prefix")

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "prefix/gone"
	})).Return(nil, &types.NotFound{}).Once()
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied")).Once()

	assert.NoError(t, store.Delete(context.Background(), "gone"))
	assert.EqualError(t, store.Delete(context.Background(), "other"), "denied")
}

func TestStoreList(t *testing.T) {
	client := newMockS3Client()
	store := NewStore(client, "bucket", "prefix/")

	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "prefix/shard-" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents:              []types.Object{{Key: aws.String("prefix/shard-00001.jsonl")}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page-2"
	})).Return(&s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String("prefix/shard-00000.jsonl")}},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	names, err := store.List(context.Background(), "shard-")
	require.NoError(t, err)
	assert.Equal(t, []string{"shard-00000.jsonl", "shard-00001.jsonl"}, names)
	client.AssertExpectations(t)
}

func TestCommitStore(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	mem := blobstore.NewMemoryStore()
	uri := "s3://bucket/runs/bfs"

	first := NewCommitStore(mem, ddb, "commits", uri, "manifest.json")
	second := NewCommitStore(mem, ddb, "commits", uri, "manifest.json")

	require.NoError(t, first.Put(ctx, "shard-00000.jsonl", []byte("a")))
	require.NoError(t, second.Put(ctx, "shard-00000.jsonl", []byte("b")), "non-commit blobs pass through")

	committed, err := first.Committed(ctx)
	require.NoError(t, err)
	assert.False(t, committed)

	require.NoError(t, first.Put(ctx, "manifest.json", []byte(`{"run":1}`)))
	err = second.Put(ctx, "manifest.json", []byte(`{"run":2}`))
	require.ErrorIs(t, err, ErrAlreadyCommitted)

	data, err := blobstore.ReadAll(ctx, mem, "manifest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"run":1}`, string(data))

	committed, err = second.Committed(ctx)
	require.NoError(t, err)
	assert.True(t, committed)

	rec, err := second.Record(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uri, rec.BaseURI)
	assert.Equal(t, hash.Format(hash.Sum([]byte(`{"run":1}`))), rec.Checksum)
	assert.NotZero(t, rec.CommittedAt)
}

type failingStore struct {
	blobstore.Store
}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("upload failed")
}

func TestCommitStoreReleasesClaim(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	uri := "s3://bucket/runs/dfs"

	broken := NewCommitStore(failingStore{blobstore.NewMemoryStore()}, ddb, "commits", uri, "manifest.json")
	require.EqualError(t, broken.Put(ctx, "manifest.json", []byte("{}")), "upload failed")

	committed, err := broken.Committed(ctx)
	require.NoError(t, err)
	assert.False(t, committed, "a failed upload releases the claim")

	ok := NewCommitStore(blobstore.NewMemoryStore(), ddb, "commits", uri, "manifest.json")
	assert.NoError(t, ok.Put(ctx, "manifest.json", []byte("{}")))

	ddb.putErr = errors.New("throttled")
	other := NewCommitStore(blobstore.NewMemoryStore(), ddb, "commits", "s3://bucket/other", "manifest.json")
	err = other.Put(ctx, "manifest.json", []byte("{}"))
	assert.ErrorContains(t, err, "throttled")
	assert.NotErrorIs(t, err, ErrAlreadyCommitted)
}
