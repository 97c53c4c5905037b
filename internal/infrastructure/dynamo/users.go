package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-dashboard/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// Verification and reset tokens live on the user record itself and are looked
// up by value through GSIs, mirroring the single-table ownership model.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Put inserts a new user. The condition guards against id collisions; email
// uniqueness is enforced by the GetByEmail precheck in the account service.
func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

// GetByVerificationToken looks up the user holding the exact token value.
func (r *UserRepo) GetByVerificationToken(ctx context.Context, tok string) (*domain.User, error) {
	return r.queryGSI(ctx, "verification_token-index", "verification_token", tok)
}

// GetByResetToken looks up the user holding the exact reset token value.
func (r *UserRepo) GetByResetToken(ctx context.Context, tok string) (*domain.User, error) {
	return r.queryGSI(ctx, "reset_token-index", "reset_token", tok)
}

func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// SetVerificationToken stores a fresh verification token and expiry,
// overwriting any previous one (reissue invalidates the old link).
func (r *UserRepo) SetVerificationToken(ctx context.Context, userID, tok string, expiry time.Time) error {
	return r.Update(ctx, userID, map[string]interface{}{
		"verification_token":        tok,
		"verification_token_expiry": expiry.UTC().Format(time.RFC3339),
	})
}

// SetResetToken stores a fresh password reset token and expiry.
func (r *UserRepo) SetResetToken(ctx context.Context, userID, tok string, expiry time.Time) error {
	return r.Update(ctx, userID, map[string]interface{}{
		"reset_token":        tok,
		"reset_token_expiry": expiry.UTC().Format(time.RFC3339),
	})
}

// ConsumeVerificationToken atomically clears the verification token and stamps
// email_verified. The condition requires the stored token to still equal tok,
// so of two concurrent consumers exactly one succeeds; the loser gets
// domain.ErrNotFound.
func (r *UserRepo) ConsumeVerificationToken(ctx context.Context, userID, tok string, verifiedAt time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
		UpdateExpression: aws.String(
			"SET email_verified = :v, updated_at = :u REMOVE verification_token, verification_token_expiry"),
		ConditionExpression: aws.String("verification_token = :tok"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":   &types.AttributeValueMemberS{Value: verifiedAt.UTC().Format(time.RFC3339)},
			":u":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":tok": &types.AttributeValueMemberS{Value: tok},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("verification token already consumed: %w", domain.ErrNotFound)
	}
	return err
}

// ConsumeResetToken atomically clears the reset token and writes the new
// password digest in the same update, so a consumed token can never leave the
// old password in place.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, userID, tok, newPasswordHash string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
		UpdateExpression: aws.String(
			"SET password_hash = :h, updated_at = :u REMOVE reset_token, reset_token_expiry"),
		ConditionExpression: aws.String("reset_token = :tok"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h":   &types.AttributeValueMemberS{Value: newPasswordHash},
			":u":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":tok": &types.AttributeValueMemberS{Value: tok},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("reset token already consumed: %w", domain.ErrNotFound)
	}
	return err
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
