package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/commerce-api/internal/core/domain"
)

const cartItemsCollection = "cart_items"

type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(cartItemsCollection)}
}

type mongoCartItem struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ItemID    string    `bson:"item_id"`
	Quantity  int64     `bson:"quantity"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (mc mongoCartItem) toDomain() *domain.CartItem {
	return &domain.CartItem{
		ID:        mc.ID,
		UserID:    mc.UserID,
		ItemID:    mc.ItemID,
		Quantity:  mc.Quantity,
		CreatedAt: mc.CreatedAt,
		UpdatedAt: mc.UpdatedAt,
	}
}

// UpsertIncrement performs the atomic read-modify-write the cart invariant
// needs: one findAndModify with $inc and upsert, so concurrent adds of the
// same (user, item) pair serialize inside the store and can neither create
// two lines nor lose an increment. The unique (user_id, item_id) index
// backstops the upsert race.
func (r *CartRepository) UpsertIncrement(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "item_id": itemID}
	update := bson.M{
		"$inc": bson.M{"quantity": 1},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"user_id":    userID,
			"item_id":    itemID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var mc mongoCartItem
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the upsert race; the line now exists, increment it.
			if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{
				"$inc": bson.M{"quantity": 1},
				"$set": bson.M{"updated_at": now},
			}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mc); err != nil {
				return nil, fmt.Errorf("increment cart line: %w", err)
			}
			return mc.toDomain(), nil
		}
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCartItem
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart line: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer cur.Close(ctx)

	var lines []*domain.CartItem
	for cur.Next(ctx) {
		var mc mongoCartItem
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode cart line: %w", err)
		}
		lines = append(lines, mc.toDomain())
	}
	return lines, cur.Err()
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// DeleteByIDs removes exactly the given ids, scoped to the owner so a
// forged id list can never touch another user's cart.
func (r *CartRepository) DeleteByIDs(ctx context.Context, userID string, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{
		"_id":     bson.M{"$in": ids},
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("clear cart lines: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique (user_id, item_id) index that enforces
// the one-line-per-pair invariant.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "item_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
