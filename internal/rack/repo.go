package rack

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/angelmondragon/onrack-backend/pkg/mongo/models"
)

const businessKeyField = "user.user_id"

// Repository encapsulates rack persistence against the User collection.
// Racks live embedded in user documents, so every mutation is an array
// update on the owning document.
type Repository struct {
	users *mongo.Collection
}

// NewRepository constructs a rack repo bound to the provided database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(models.UserCollection)}
}

// FindByBusinessID looks a user up by the nested business key, not the
// document _id. Returns mongo.ErrNoDocuments when absent.
func (r *Repository) FindByBusinessID(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	filter := bson.D{{Key: businessKeyField, Value: userID}}
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PushRackItem appends one item to the user's rack.
func (r *Repository) PushRackItem(ctx context.Context, userID int, item models.RackItem) error {
	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: businessKeyField, Value: userID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "rack", Value: item}}}},
	)
	if err != nil {
		return fmt.Errorf("push rack item: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRackItemDate updates the purchased date on the first rack item whose
// product matches, via the positional operator. Returns
// mongo.ErrNoDocuments when neither user nor item matched.
func (r *Repository) SetRackItemDate(ctx context.Context, userID int, productID primitive.ObjectID, date string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.D{
			{Key: businessKeyField, Value: userID},
			{Key: "rack.product_id", Value: productID},
		},
		bson.D{{Key: "$set", Value: bson.D{{Key: "rack.$.purchased_date", Value: date}}}},
	)
	if err != nil {
		return fmt.Errorf("set rack item date: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveRackItem pulls every rack item referencing the product. The rack is
// not deduplicated on write, so one pull may remove several rows.
func (r *Repository) RemoveRackItem(ctx context.Context, userID int, productID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: businessKeyField, Value: userID}},
		bson.D{{Key: "$pull", Value: bson.D{
			{Key: "rack", Value: bson.D{{Key: "product_id", Value: productID}}},
		}}},
	)
	if err != nil {
		return fmt.Errorf("remove rack item: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// JoinedRackItem is one row of the rack/product join.
type JoinedRackItem struct {
	Item    models.RackItem `bson:"rack"`
	Product models.Product  `bson:"products"`
}

// JoinRackWithProducts produces one row per rack item for the user, each
// paired with its referenced product. Items whose product was deleted are
// dropped by the inner unwind, not reported as errors.
func (r *Repository) JoinRackWithProducts(ctx context.Context, userID int) ([]JoinedRackItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: businessKeyField, Value: userID}}}},
		{{Key: "$unwind", Value: "$rack"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: models.ProductCollection},
			{Key: "localField", Value: "rack.product_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "products"},
		}}},
		{{Key: "$unwind", Value: "$products"}},
		{{Key: "$project", Value: bson.D{
			{Key: "rack", Value: 1},
			{Key: "products", Value: 1},
		}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("join rack with products: %w", err)
	}
	var rows []JoinedRackItem
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode rack join: %w", err)
	}
	return rows, nil
}

// CountRackReferences recounts rack items referencing the product across
// all users. This is the ground truth the counter cache is reconciled to.
func (r *Repository) CountRackReferences(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "rack.product_id", Value: productID}}}},
		{{Key: "$unwind", Value: "$rack"}},
		{{Key: "$match", Value: bson.D{{Key: "rack.product_id", Value: productID}}}},
		{{Key: "$count", Value: "references"}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count rack references: %w", err)
	}
	var rows []struct {
		References int64 `bson:"references"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode rack count: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].References, nil
}
