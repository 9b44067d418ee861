package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nkapur/storefront/internal/order/domain"
	"github.com/nkapur/storefront/pkg/apperr"
)

const DefaultPageSize = 10

type PlaceOrderItem struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	UserID          string
	ShippingAddress string
	Items           []PlaceOrderItem
}

type OrderPage struct {
	Orders []domain.Order
	Total  int64
	Limit  int64
	Offset int64
}

type Service struct {
	log         *slog.Logger
	repo        OrderRepository
	stock       StockAdjuster
	events      EventPublisher
	maxPageSize int64
}

func NewService(log *slog.Logger, repo OrderRepository, stock StockAdjuster, events EventPublisher, maxPageSize int64) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Service{log: log, repo: repo, stock: stock, events: events, maxPageSize: maxPageSize}
}

// Place runs the placement contract: for each requested line, a conditional
// stock decrement that doubles as the existence and availability check, then
// a snapshot of the product's name and price into the line item. Any failure
// after the first decrement restores the stock already taken. Client-supplied
// prices never enter here; the snapshot is the only price source.
func (s *Service) Place(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	if err := validatePlaceInput(in); err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.Item, 0, len(in.Items))
	taken := make([]PlaceOrderItem, 0, len(in.Items))
	for _, req := range in.Items {
		p, err := s.stock.DecrementStock(ctx, req.ProductID, req.Quantity)
		if err != nil {
			s.restore(ctx, taken)
			return domain.Order{}, fmt.Errorf("product %s: %w", req.ProductID, err)
		}
		taken = append(taken, req)
		items = append(items, domain.Item{
			ProductID:   req.ProductID,
			ProductName: p.Name,
			Quantity:    req.Quantity,
			Price:       p.Price,
		})
	}

	o := domain.NewOrder(in.UserID, in.ShippingAddress, items)
	stored, err := s.repo.Insert(ctx, o)
	if err != nil {
		s.restore(ctx, taken)
		return domain.Order{}, err
	}

	// Best effort: a publish failure must not fail a placed order.
	if err := s.events.OrderPlaced(ctx, stored); err != nil {
		s.log.Error("order event publish failed", "order_id", stored.ID.Hex(), "err", err)
	}

	return stored, nil
}

func (s *Service) restore(ctx context.Context, taken []PlaceOrderItem) {
	for _, item := range taken {
		if err := s.stock.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Error("stock rollback failed", "product_id", item.ProductID, "quantity", item.Quantity, "err", err)
		}
	}
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int64) (OrderPage, error) {
	if strings.TrimSpace(userID) == "" {
		return OrderPage{}, apperr.Invalidf("user_id is required")
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return OrderPage{}, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return OrderPage{Orders: orders, Total: total, Limit: limit, Offset: offset}, nil
}

// Update merges arbitrary fields into the order document without re-running
// any placement rules; totals and items are not recomputed. Identity and
// creation time are protected, nothing else is.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (domain.Order, error) {
	delete(fields, "_id")
	delete(fields, "id")
	delete(fields, "created_at")
	if len(fields) == 0 {
		return domain.Order{}, apperr.Invalidf("update requires at least one field")
	}
	return s.repo.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validatePlaceInput(in PlaceOrderInput) error {
	if strings.TrimSpace(in.UserID) == "" {
		return apperr.Invalidf("user_id is required")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return apperr.Invalidf("shipping_address is required")
	}
	if len(in.Items) == 0 {
		return apperr.Invalidf("order must contain at least one item")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return apperr.Invalidf("items[%d]: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return apperr.Invalidf("items[%d]: quantity must be positive", i)
		}
	}
	return nil
}
