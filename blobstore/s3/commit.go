package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/internal/hash"
)

// ErrAlreadyCommitted is returned when another run already committed a
// manifest under the same output URI.
var ErrAlreadyCommitted = errors.New("s3: output already committed")

// DDBClient is the subset of *dynamodb.Client used by CommitStore.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// CommitRecord is the DynamoDB item of a committed output.
type CommitRecord struct {
	BaseURI     string `dynamodbav:"base_uri"`
	Checksum    string `dynamodbav:"checksum"`
	CommittedAt int64  `dynamodbav:"committed_at"`
}

// CommitStore wraps a blobstore.Store and guards the commit blob (the run
// manifest) with a DynamoDB conditional write. Two runs writing to the same
// output URI can both upload shards, but only one can commit; the other
// gets ErrAlreadyCommitted and its manifest is never written.
//
// Table schema: partition key base_uri (string).
//
//	aws dynamodb create-table \
//	  --table-name linkweave-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S \
//	  --key-schema AttributeName=base_uri,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	blobstore.Store
	ddb        DDBClient
	table      string
	baseURI    string
	commitName string
}

// NewCommitStore guards commitName (usually "manifest.json") below baseURI,
// e.g. "s3://bucket/prefix".
func NewCommitStore(store blobstore.Store, ddb DDBClient, table, baseURI, commitName string) *CommitStore {
	return &CommitStore{
		Store:      store,
		ddb:        ddb,
		table:      table,
		baseURI:    baseURI,
		commitName: commitName,
	}
}

// Put claims the output URI before writing the commit blob. Other blobs
// pass through. If the upload fails after the claim, the claim is released.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name != s.commitName {
		return s.Store.Put(ctx, name, data)
	}

	item, err := attributevalue.MarshalMap(CommitRecord{
		BaseURI:     s.baseURI,
		Checksum:    hash.Format(hash.Sum(data)),
		CommittedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("s3: marshal commit record: %w", err)
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("base_uri").AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("s3: build commit condition: %w", err)
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return fmt.Errorf("%w: %s", ErrAlreadyCommitted, s.baseURI)
		}
		return fmt.Errorf("s3: claim %s: %w", s.baseURI, err)
	}

	if err := s.Store.Put(ctx, name, data); err != nil {
		if _, derr := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.table),
			Key:       s.itemKey(),
		}); derr != nil {
			return errors.Join(err, fmt.Errorf("s3: release claim %s: %w", s.baseURI, derr))
		}
		return err
	}
	return nil
}

// Committed reports whether a run has committed under the output URI.
func (s *CommitStore) Committed(ctx context.Context) (bool, error) {
	rec, err := s.Record(ctx)
	return rec != nil, err
}

// Record returns the commit record of the output URI, or nil if nothing
// was committed.
func (s *CommitStore) Record(ctx context.Context) (*CommitRecord, error) {
	resp, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.itemKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Item) == 0 {
		return nil, nil
	}
	var rec CommitRecord
	if err := attributevalue.UnmarshalMap(resp.Item, &rec); err != nil {
		return nil, fmt.Errorf("s3: decode commit record: %w", err)
	}
	return &rec, nil
}

func (s *CommitStore) itemKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"base_uri": &types.AttributeValueMemberS{Value: s.baseURI},
	}
}

// NewDDBClient loads the default AWS configuration and creates a DynamoDB
// client for NewCommitStore.
func NewDDBClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}
