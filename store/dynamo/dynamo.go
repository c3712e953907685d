// Package dynamo implements the record/index store on DynamoDB using a
// single-table layout:
//
//	pk (S) = dataset id
//	sk (S) = "record#<id>" | "index#<token>" | "plain#<prefix>" | "meta"
//
// Record items carry ct (B), iv (B), version (N). Bucket items carry ids
// (L of S) in append order, since the engine's capping policy depends on the
// store's native bucket ordering. The meta item carries size (N) and
// updated_at (S, RFC3339).
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name blindbench \
//	  --attribute-definitions AttributeName=pk,AttributeType=S AttributeName=sk,AttributeType=S \
//	  --key-schema AttributeName=pk,KeyType=HASH AttributeName=sk,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ai8future/blindbench/store"
)

const (
	skRecordPrefix = "record#"
	skIndexPrefix  = "index#"
	skPlainPrefix  = "plain#"
	skMeta         = "meta"
)

// Client is the narrow DynamoDB surface the store consumes. *dynamodb.Client
// satisfies it; tests substitute a fake.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// Store implements store.RecordStore and store.Writer on DynamoDB.
type Store struct {
	client Client
	table  string
}

// New creates a DynamoDB-backed store over an existing table.
func New(client Client, table string) *Store {
	return &Store{client: client, table: table}
}

func key(datasetID, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: datasetID},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

// GetDataset reads the meta item.
func (s *Store) GetDataset(ctx context.Context, datasetID string) (*store.DatasetInfo, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(datasetID, skMeta),
	})
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	if resp.Item == nil {
		return nil, store.ErrNotFound
	}

	info := &store.DatasetInfo{ID: datasetID}
	if attr, ok := resp.Item["size"].(*types.AttributeValueMemberN); ok {
		info.Size, _ = strconv.Atoi(attr.Value)
	}
	if attr, ok := resp.Item["updated_at"].(*types.AttributeValueMemberS); ok {
		info.UpdatedAt, _ = time.Parse(time.RFC3339, attr.Value)
	}
	return info, nil
}

// BatchGetRecords fetches up to store.BatchGetLimit records, reordering the
// unordered BatchGetItem response back into the requested id order.
func (s *Store) BatchGetRecords(ctx context.Context, datasetID string, ids []string) ([]store.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, key(datasetID, skRecordPrefix+id))
	}

	byID := make(map[string]store.Record, len(ids))
	for len(keys) > 0 {
		resp, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				s.table: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("batch get: %w", err)
		}
		for _, item := range resp.Responses[s.table] {
			rec, err := parseRecordItem(item)
			if err != nil {
				return nil, err
			}
			byID[rec.ID] = rec
		}
		keys = resp.UnprocessedKeys[s.table].Keys
	}

	out := make([]store.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ScanRecords queries one id-ordered page of record items. The cursor is the
// last returned record id.
func (s *Store) ScanRecords(ctx context.Context, datasetID, cursor string, limit int) ([]store.Record, string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: datasetID},
			":prefix": &types.AttributeValueMemberS{Value: skRecordPrefix},
		},
		Limit: aws.Int32(int32(limit)),
	}
	if cursor != "" {
		input.ExclusiveStartKey = key(datasetID, skRecordPrefix+cursor)
	}

	resp, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("scan records: %w", err)
	}

	page := make([]store.Record, 0, len(resp.Items))
	for _, item := range resp.Items {
		rec, err := parseRecordItem(item)
		if err != nil {
			return nil, "", err
		}
		page = append(page, rec)
	}

	next := ""
	if len(page) > 0 {
		next = page[len(page)-1].ID
	}
	return page, next, nil
}

// GetIndexBucket reads a blind-index bucket; absent buckets yield (nil, nil).
func (s *Store) GetIndexBucket(ctx context.Context, datasetID, token string) ([]string, error) {
	return s.getBucket(ctx, datasetID, skIndexPrefix+token)
}

// GetPlainBucket reads a plaintext-index bucket; absent buckets yield (nil, nil).
func (s *Store) GetPlainBucket(ctx context.Context, datasetID, prefix string) ([]string, error) {
	return s.getBucket(ctx, datasetID, skPlainPrefix+prefix)
}

func (s *Store) getBucket(ctx context.Context, datasetID, sk string) ([]string, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(datasetID, sk),
	})
	if err != nil {
		return nil, fmt.Errorf("get bucket: %w", err)
	}
	if resp.Item == nil {
		return nil, nil
	}

	attr, ok := resp.Item["ids"].(*types.AttributeValueMemberL)
	if !ok {
		return nil, errors.New("dynamo: bucket item missing ids attribute")
	}
	ids := make([]string, 0, len(attr.Value))
	for _, v := range attr.Value {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			ids = append(ids, s.Value)
		}
	}
	return ids, nil
}

// PutRecord writes one record item.
func (s *Store) PutRecord(ctx context.Context, datasetID string, rec store.Record) error {
	item := key(datasetID, skRecordPrefix+rec.ID)
	item["ct"] = &types.AttributeValueMemberB{Value: rec.Ciphertext}
	item["iv"] = &types.AttributeValueMemberB{Value: rec.IV}
	item["version"] = &types.AttributeValueMemberN{Value: strconv.Itoa(rec.Version)}
	return s.put(ctx, item)
}

// PutIndexBucket writes a whole blind-index bucket.
func (s *Store) PutIndexBucket(ctx context.Context, datasetID, token string, recordIDs []string) error {
	return s.putBucket(ctx, datasetID, skIndexPrefix+token, recordIDs)
}

// PutPlainBucket writes a whole plaintext-index bucket.
func (s *Store) PutPlainBucket(ctx context.Context, datasetID, prefix string, recordIDs []string) error {
	return s.putBucket(ctx, datasetID, skPlainPrefix+prefix, recordIDs)
}

func (s *Store) putBucket(ctx context.Context, datasetID, sk string, recordIDs []string) error {
	ids := make([]types.AttributeValue, 0, len(recordIDs))
	for _, id := range recordIDs {
		ids = append(ids, &types.AttributeValueMemberS{Value: id})
	}
	item := key(datasetID, sk)
	item["ids"] = &types.AttributeValueMemberL{Value: ids}
	return s.put(ctx, item)
}

// PutDataset writes the meta item.
func (s *Store) PutDataset(ctx context.Context, info store.DatasetInfo) error {
	item := key(info.ID, skMeta)
	item["size"] = &types.AttributeValueMemberN{Value: strconv.Itoa(info.Size)}
	item["updated_at"] = &types.AttributeValueMemberS{Value: info.UpdatedAt.UTC().Format(time.RFC3339)}
	return s.put(ctx, item)
}

func (s *Store) put(ctx context.Context, item map[string]types.AttributeValue) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func parseRecordItem(item map[string]types.AttributeValue) (store.Record, error) {
	skAttr, ok := item["sk"].(*types.AttributeValueMemberS)
	if !ok || len(skAttr.Value) <= len(skRecordPrefix) {
		return store.Record{}, errors.New("dynamo: malformed record key")
	}
	rec := store.Record{ID: skAttr.Value[len(skRecordPrefix):]}

	ct, ok := item["ct"].(*types.AttributeValueMemberB)
	if !ok {
		return store.Record{}, errors.New("dynamo: record item missing ct attribute")
	}
	iv, ok := item["iv"].(*types.AttributeValueMemberB)
	if !ok {
		return store.Record{}, errors.New("dynamo: record item missing iv attribute")
	}
	rec.Ciphertext = ct.Value
	rec.IV = iv.Value
	if v, ok := item["version"].(*types.AttributeValueMemberN); ok {
		rec.Version, _ = strconv.Atoi(v.Value)
	}
	return rec, nil
}
