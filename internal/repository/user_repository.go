package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

type UserRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepository(client *dynamodb.Client, tableName string) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
	}
}

func userPK(id string) string { return fmt.Sprintf("USER#%s", id) }

// CreateUser writes the user record together with a claim item on the
// phone number in one transaction. Two concurrent checkouts for the
// same number race on the claim, so exactly one create wins; the loser
// gets ErrUserExists and re-reads the winner.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	av, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	av["PK"] = &types.AttributeValueMemberS{Value: userPK(user.UserID)}
	av["SK"] = &types.AttributeValueMemberS{Value: skMetadata}
	// Phone is the customer-facing identity; GSI1 serves the lookup.
	av["GSI1PK"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("PHONE#%s", user.Phone)}
	av["GSI1SK"] = &types.AttributeValueMemberS{Value: skMetadata}

	claim := map[string]types.AttributeValue{
		"PK":      &types.AttributeValueMemberS{Value: fmt.Sprintf("PHONE#%s", user.Phone)},
		"SK":      &types.AttributeValueMemberS{Value: skMetadata},
		"user_id": &types.AttributeValueMemberS{Value: user.UserID},
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                claim,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to put user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, ErrUserNotFound
	}
	return unmarshalUser(out.Item)
}

// GetUserByPhone expects the canonical +8801XXXXXXXXX form; callers
// normalize before lookup.
func (r *UserRepository) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: fmt.Sprintf("PHONE#%s", phone)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, ErrUserNotFound
	}
	return unmarshalUser(out.Items[0])
}

// ResetCart clears the in-progress cart after a confirmed payment.
func (r *UserRepository) ResetCart(ctx context.Context, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression: aws.String("SET cart_data = :empty"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to reset cart: %w", err)
	}
	return nil
}

// SetPassword stores the bcrypt hash for an account created without one.
func (r *UserRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression: aws.String("SET password_hash = :h"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h": &types.AttributeValueMemberS{Value: passwordHash},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

func unmarshalUser(item map[string]types.AttributeValue) (*domain.User, error) {
	var user domain.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
