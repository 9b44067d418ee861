package application

import (
	"context"

	"github.com/nkapur/storefront/internal/catalog/domain"
)

// ListFilter is the normalized query for a catalog page. Name matches as a
// case-insensitive substring, Size as an exact value; either may be empty.
type ListFilter struct {
	Name   string
	Size   string
	Limit  int64
	Offset int64
}

// ProductPatch carries the fields of a partial update; nil means untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Size        *string
	Stock       *int
}

type ProductRepository interface {
	Insert(ctx context.Context, p domain.Product) (domain.Product, error)
	Find(ctx context.Context, f ListFilter) ([]domain.Product, int64, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}
