package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/velostore/storefront/internal/domain"
)

// MongoStore is the durable cart backend. Line items are stored as
// individual documents so add/increment can be a single upsert and
// update/remove can be scoped to the caller's owner key by the query
// itself, which is what guarantees owner isolation here.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("cart_items"),
	}
}

func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *MongoStore) ListItems(ctx context.Context, ownerKey string) ([]domain.CartLineItem, error) {
	filter := bson.M{"owner_key": ownerKey}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []domain.CartLineItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

func (m *MongoStore) AddOrIncrement(ctx context.Context, ownerKey, variantID string, quantity int) (*domain.CartLineItem, error) {
	now := time.Now()

	filter := bson.M{"owner_key": ownerKey, "variant_id": variantID}
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"owner_key":  ownerKey,
			"variant_id": variantID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var item domain.CartLineItem
	if err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return &item, nil
}

func (m *MongoStore) SetQuantity(ctx context.Context, itemID string, quantity int, ownerKey string) (*domain.CartLineItem, error) {
	filter := bson.M{"_id": itemID, "owner_key": ownerKey}
	update := bson.M{
		"$set": bson.M{
			"quantity":   quantity,
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.CartLineItem
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return &item, nil
}

func (m *MongoStore) Remove(ctx context.Context, itemID, ownerKey string) (*domain.CartLineItem, error) {
	filter := bson.M{"_id": itemID, "owner_key": ownerKey}

	var item domain.CartLineItem
	err := m.collection.FindOneAndDelete(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return &item, nil
}

func (m *MongoStore) Clear(ctx context.Context, ownerKey string) error {
	filter := bson.M{"owner_key": ownerKey}

	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_key", Value: 1},
				{Key: "variant_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
