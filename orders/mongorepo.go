package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

// ErrOrderNotFound reports a lookup or status update against an unknown
// order id.
var ErrOrderNotFound = errors.New("order not found")

// MongoRepository keeps orders in a MongoDB collection.
type MongoRepository struct {
	Collection *mongo.Collection
}

// NewMongoRepository creates a MongoRepository on the storefront orders
// collection.
func NewMongoRepository(client *mongo.Client) *MongoRepository {
	collection := client.Database("storefront").Collection("orders")
	return &MongoRepository{Collection: collection}
}

// Insert writes a new order, assigning its id.
func (r *MongoRepository) Insert(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, order)
	return err
}

// Get fetches one order by id.
func (r *MongoRepository) Get(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	var order models.Order
	err = r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets a new fulfillment status, touching only status and
// updated_at.
func (r *MongoRepository) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
