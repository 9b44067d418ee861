package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkapur/storefront/internal/catalog/application"
	"github.com/nkapur/storefront/internal/catalog/domain"
	"github.com/nkapur/storefront/pkg/apperr"
)

const collection = "products"

type Repository struct {
	log *slog.Logger
	col *mongo.Collection
}

func NewRepository(log *slog.Logger, db *mongo.Database) *Repository {
	return &Repository{log: log, col: db.Collection(collection)}
}

func (r *Repository) Insert(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repository) Find(ctx context.Context, f application.ListFilter) ([]domain.Product, int64, error) {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}
	if f.Size != "" {
		filter["size"] = f.Size
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(f.Offset).
		SetLimit(f.Limit)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}

	var p domain.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id string, patch application.ProductPatch) (domain.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Size != nil {
		set["size"] = *patch.Size
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p domain.Product
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock atomically takes qty units off a product's stock, but only
// when enough stock is present: the filter is both the existence check and
// the oversell guard, so concurrent orders cannot drive stock negative. The
// updated document is returned for line-item snapshotting.
func (r *Repository) DecrementStock(ctx context.Context, id string, qty int) (domain.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}

	filter := bson.M{"_id": oid, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p domain.Product
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, fmt.Errorf("decrement stock: %w", err)
	}

	// No match: missing product and short stock look the same, so look the
	// product up to tell the caller which it was.
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.Product{}, fmt.Errorf("decrement stock: %w", err)
	}
	if n == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return domain.Product{}, domain.ErrInsufficientStock
}

// RestoreStock gives qty units back after a failed multi-item placement.
func (r *Repository) RestoreStock(ctx context.Context, id string, qty int) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	_, err = r.col.UpdateByID(ctx, oid, bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalidf("invalid product id %q", id)
	}
	return oid, nil
}
