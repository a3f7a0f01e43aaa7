package repository

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	pkgconfig "github.com/Kabir4874/AnondoShop-Backend/pkg/config"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrProductNotFound = errors.New("product not found")
)

// Single-table layout: PK/SK identify the record, GSI1 serves the
// owner-to-orders and phone-to-user lookups.
const (
	skMetadata = "METADATA"
	gsi1Name   = "GSI1"
)

func NewDynamoDBClient(cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	if cfg.DynamoDBEndpoint != "" {
		return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}), nil
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}
