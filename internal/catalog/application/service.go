package application

import (
	"context"
	"strings"

	"github.com/nkapur/storefront/internal/catalog/domain"
	"github.com/nkapur/storefront/pkg/apperr"
)

const DefaultPageSize = 10

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Size        string
	Stock       int
}

type ProductPage struct {
	Products []domain.Product
	Total    int64
	Limit    int64
	Offset   int64
}

type Service struct {
	repo        ProductRepository
	maxPageSize int64
}

func NewService(repo ProductRepository, maxPageSize int64) *Service {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Service{repo: repo, maxPageSize: maxPageSize}
}

func (s *Service) Create(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if err := validateProductInput(in.Name, in.Description, in.Category, in.Price, in.Stock); err != nil {
		return domain.Product{}, err
	}
	p := domain.NewProduct(in.Name, in.Description, in.Price, in.Category, in.Size, in.Stock)
	return s.repo.Insert(ctx, p)
}

func (s *Service) List(ctx context.Context, f ListFilter) (ProductPage, error) {
	f.Limit, f.Offset = s.clamp(f.Limit, f.Offset)
	products, total, err := s.repo.Find(ctx, f)
	if err != nil {
		return ProductPage{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return ProductPage{Products: products, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Product{}, apperr.Invalidf("product name must not be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return domain.Product{}, apperr.Invalidf("product price must be positive")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return domain.Product{}, apperr.Invalidf("product stock must not be negative")
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) clamp(limit, offset int64) (int64, int64) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func validateProductInput(name, description, category string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Invalidf("product name must not be empty")
	}
	if strings.TrimSpace(description) == "" {
		return apperr.Invalidf("product description must not be empty")
	}
	if strings.TrimSpace(category) == "" {
		return apperr.Invalidf("product category must not be empty")
	}
	if price <= 0 {
		return apperr.Invalidf("product price must be positive")
	}
	if stock < 0 {
		return apperr.Invalidf("product stock must not be negative")
	}
	return nil
}
