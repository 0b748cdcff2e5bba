package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go-storefront/models"
)

// MongoStore keeps carts in a MongoDB collection, one document per cart
// key. The cart key is the document id, so every access is a key lookup.
type MongoStore struct {
	Collection *mongo.Collection
}

// NewMongoStore creates a MongoStore on the storefront carts collection.
func NewMongoStore(client *mongo.Client) *MongoStore {
	collection := client.Database("storefront").Collection("carts")
	return &MongoStore{Collection: collection}
}

type cartDocument struct {
	Key         string `bson:"_id"`
	models.Cart `bson:",inline"`
}

// Get fetches the cart stored under key, or (nil, nil) when there is none.
func (s *MongoStore) Get(ctx context.Context, key string) (*models.Cart, error) {
	var doc cartDocument
	err := s.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Cart, nil
}

// Put writes the whole cart document, guarded by its revision. A cart with
// revision 0 is inserted; anything else replaces the stored document only
// if the revision still matches.
func (s *MongoStore) Put(ctx context.Context, key string, cart *models.Cart) error {
	doc := cartDocument{Key: key, Cart: *cart}
	doc.Revision = cart.Revision + 1

	if cart.Revision == 0 {
		_, err := s.Collection.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		cart.Revision = doc.Revision
		return nil
	}

	result, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": key, "revision": cart.Revision}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	cart.Revision = doc.Revision
	return nil
}

// Delete removes the cart stored under key; missing keys are a no-op.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
