package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is the catalog document. Stock never goes negative: the only write
// that lowers it is the conditional decrement in the repository.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Size        string             `json:"size,omitempty" bson:"size,omitempty"`
	Stock       int                `json:"stock" bson:"stock"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func NewProduct(name, description string, price float64, category, size string, stock int) Product {
	now := time.Now().UTC()
	return Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Size:        size,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
