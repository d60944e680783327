package products

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/angelmondragon/onrack-backend/pkg/mongo/models"
)

// Repository encapsulates Product collection persistence.
type Repository struct {
	col *mongo.Collection
}

// NewRepository constructs a product repo bound to the provided database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(models.ProductCollection)}
}

// Create inserts a new product and returns the store-generated id.
func (r *Repository) Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert product: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// FindByID loads one product. Returns mongo.ErrNoDocuments when absent.
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns every product in the store's natural (insertion) order,
// fully materialized before return.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var result []models.Product
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return result, nil
}

// Replace overwrites the whole product document. Returns
// mongo.ErrNoDocuments when no document matched.
func (r *Repository) Replace(ctx context.Context, id primitive.ObjectID, product *models.Product) error {
	product.ID = id
	res, err := r.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, product)
	if err != nil {
		return fmt.Errorf("replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the product document. The product's counter cache entry is
// intentionally left behind; it is orphaned and never read again.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
