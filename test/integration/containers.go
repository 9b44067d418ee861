package integration

import (
	"context"
	"time"

	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type Env struct {
	Mongo    *tcmongodb.MongoDBContainer
	Redis    *tcredis.RedisContainer
	MongoURI string
	RedisURI string
	Cancel   context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	mongoC, err := tcmongodb.Run(ctx, "mongo:7")
	if err != nil {
		cancel()
		return nil, err
	}

	mongoURI, err := mongoC.ConnectionString(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		cancel()
		return nil, err
	}

	redisURI, err := redisC.ConnectionString(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	return &Env{
		Mongo:    mongoC,
		Redis:    redisC,
		MongoURI: mongoURI,
		RedisURI: redisURI,
		Cancel:   cancel,
	}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	e.Cancel()
	_ = e.Redis.Terminate(ctx)
	_ = e.Mongo.Terminate(ctx)
}
