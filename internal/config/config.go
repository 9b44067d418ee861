package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	MongoURI string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDB  string `envconfig:"MONGODB_DB_NAME" default:"storefront"`

	// Empty disables idempotency checks on order placement.
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	// Empty disables order event publishing.
	KafkaAddr  string `envconfig:"KAFKA_ADDR"`
	OrderTopic string `envconfig:"ORDER_TOPIC" default:"order.events"`

	// Empty disables trace export.
	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT"`

	MaxPageSize int64 `envconfig:"MAX_PAGE_SIZE" default:"100"`

	ConnectRetries int           `envconfig:"CONNECT_RETRIES" default:"5"`
	ConnectBackoff time.Duration `envconfig:"CONNECT_BACKOFF" default:"2s"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
