package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"ap-southeast-1"`
	TableName        string `envconfig:"SHOP_TABLE_NAME" default:"anondoshop"`
	KafkaBrokers     string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT" default:""`

	// Where gateways call back, and where customers land afterwards.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	ClientURL     string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	SSLCzStoreID  string `envconfig:"SSLCZ_STORE_ID"`
	SSLCzPassword string `envconfig:"SSLCZ_STORE_PASSWORD"`
	SSLCzBaseURL  string `envconfig:"SSLCZ_BASE_URL" default:"https://sandbox.sslcommerz.com"`

	BkashBaseURL   string `envconfig:"BKASH_BASE_URL" default:"https://tokenized.sandbox.bka.sh/v1.2.0-beta"`
	BkashUsername  string `envconfig:"BKASH_USERNAME"`
	BkashPassword  string `envconfig:"BKASH_PASSWORD"`
	BkashAppKey    string `envconfig:"BKASH_APP_KEY"`
	BkashAppSecret string `envconfig:"BKASH_APP_SECRET"`

	CourierBaseURL  string `envconfig:"COURIER_BASE_URL"`
	CourierAPIToken string `envconfig:"COURIER_API_TOKEN"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
