package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

type OrderRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewOrderRepository(client *dynamodb.Client, tableName string) *OrderRepository {
	return &OrderRepository{
		client:    client,
		tableName: tableName,
	}
}

func orderPK(id string) string { return fmt.Sprintf("ORDER#%s", id) }

func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	av, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	av["PK"] = &types.AttributeValueMemberS{Value: orderPK(order.OrderID)}
	av["SK"] = &types.AttributeValueMemberS{Value: skMetadata}
	av["GSI1PK"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", order.UserID)}
	av["GSI1SK"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("ORDER#%s", order.CreatedAt.Format(time.RFC3339))}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: orderPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, ErrOrderNotFound
	}

	var order domain.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns every order record (admin view, newest last).
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("begins_with(PK, :p) AND SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":  &types.AttributeValueMemberS{Value: "ORDER#"},
			":sk": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByUser queries the owner index, newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :u AND begins_with(GSI1SK, :o)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":o": &types.AttributeValueMemberS{Value: "ORDER#"},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderFields applies a targeted update to an existing order.
// The condition keeps a concurrent delete from resurrecting the record.
func (r *OrderRepository) UpdateOrderFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	expr := "SET updated_at = :u"
	values := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
	}
	names := map[string]string{}
	i := 0
	for k, v := range fields {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal field %s: %w", k, err)
		}
		ph := fmt.Sprintf(":v%d", i)
		nm := fmt.Sprintf("#f%d", i)
		expr += fmt.Sprintf(", %s = %s", nm, ph)
		values[ph] = av
		names[nm] = k
		i++
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: orderPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
		ConditionExpression:       aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: orderPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}
