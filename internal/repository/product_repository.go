package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

type ProductRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewProductRepository(client *dynamodb.Client, tableName string) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
	}
}

func productPK(id string) string { return fmt.Sprintf("PRODUCT#%s", id) }

// GetProductsByIDs batch-fetches products, keyed by id. Callers decide
// what a missing id means; absent entries are simply not in the map.
func (r *ProductRepository) GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: productPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		})
	}

	// BatchGetItem can return unprocessed keys under load; loop until
	// the request set drains.
	request := map[string]types.KeysAndAttributes{
		r.tableName: {Keys: keys},
	}
	for len(request) > 0 {
		out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: request,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to batch get products: %w", err)
		}

		for _, item := range out.Responses[r.tableName] {
			var p domain.Product
			if err := attributevalue.UnmarshalMap(item, &p); err != nil {
				return nil, err
			}
			products[p.ProductID] = p
		}
		request = out.UnprocessedKeys
	}
	return products, nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: productPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, ErrProductNotFound
	}

	var p domain.Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
