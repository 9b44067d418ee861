package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrOrderNotFound = errors.New("order not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusShipped  Status = "shipped"
	StatusCanceled Status = "canceled"
)

// Item is one order line. ProductName and Price are snapshots taken at
// placement time; later catalog edits never touch them.
type Item struct {
	ProductID   string  `json:"product_id" bson:"product_id"`
	ProductName string  `json:"product_name" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          string             `json:"user_id" bson:"user_id"`
	Items           []Item             `json:"items" bson:"items"`
	TotalAmount     float64            `json:"total_amount" bson:"total_amount"`
	ShippingAddress string             `json:"shipping_address" bson:"shipping_address"`
	Status          Status             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewOrder derives the total from the line items; there is no other way a
// total enters the system.
func NewOrder(userID, shippingAddress string, items []Item) Order {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	now := time.Now().UTC()
	return Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: shippingAddress,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
