package application

import (
	"context"

	catalogdomain "github.com/nkapur/storefront/internal/catalog/domain"
	"github.com/nkapur/storefront/internal/order/domain"
)

type OrderRepository interface {
	Insert(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int64) ([]domain.Order, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) (domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// StockAdjuster is the catalog-side seam order placement drives. Decrement
// must be atomic with respect to the stock check and return the product as it
// stands after the decrement, for snapshotting.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID string, qty int) (catalogdomain.Product, error)
	RestoreStock(ctx context.Context, productID string, qty int) error
}

type EventPublisher interface {
	OrderPlaced(ctx context.Context, o domain.Order) error
}

// NopPublisher is wired when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, domain.Order) error { return nil }
