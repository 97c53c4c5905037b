package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-dashboard/internal/domain"
)

// RateLimitRepo persists fixed-window counters in the rate_limits table.
// "key" and "count" are DynamoDB reserved words, hence the attribute aliases.
type RateLimitRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRateLimitRepo(client *dynamodb.Client, tableName string) *RateLimitRepo {
	return &RateLimitRepo{client: client, tableName: tableName}
}

func (r *RateLimitRepo) Get(ctx context.Context, key string) (*domain.RateLimitRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("key", key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("rate limit record not found: %w", domain.ErrNotFound)
	}
	var rec domain.RateLimitRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RateLimitRepo) Create(ctx context.Context, rec *domain.RateLimitRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal rate limit record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": "key"},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("rate limit record exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *RateLimitRepo) Reset(ctx context.Context, key string, now int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("key", key),
		UpdateExpression:         aws.String("SET #c = :one, last_reset = :now"),
		ExpressionAttributeNames: map[string]string{"#c": "count"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now, 10)},
		},
	})
	return err
}

// Increment adds 1 to the counter as a single write and returns the new count,
// so concurrent allowers serialize on DynamoDB rather than on a read.
func (r *RateLimitRepo) Increment(ctx context.Context, key string) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("key", key),
		UpdateExpression:         aws.String("ADD #c :one"),
		ExpressionAttributeNames: map[string]string{"#c": "count"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	n, ok := out.Attributes["count"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("unexpected counter attribute in update response")
	}
	count, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("parse counter: %w", err)
	}
	return count, nil
}
