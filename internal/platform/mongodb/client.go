// Package mongodb owns the document store connection lifecycle.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect dials the store and verifies it with a ping, retrying the ping a
// bounded number of times with a fixed backoff. Business operations never
// retry; only this startup handshake does.
func Connect(ctx context.Context, log *slog.Logger, uri string, retries int, backoff time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	attempts := retries + 1
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			log.Info("connected to mongo", "attempt", attempt)
			return client, nil
		}
		if attempt >= attempts {
			break
		}
		log.Warn("mongo ping failed, retrying", "attempt", attempt, "backoff", backoff, "err", err)
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("mongo ping after %d attempts: %w", attempts, err)
}

// Unavailable reports whether err looks like a store connectivity failure
// rather than a business outcome. Repositories wrap driver errors, so the
// whole chain is inspected.
func Unavailable(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if mongo.IsNetworkError(e) || mongo.IsTimeout(e) {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Ping is the health-check probe used by the HTTP layer.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}
