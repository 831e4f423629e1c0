package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/technewwings/payload-ecommerce-cod/domain"
)

type MongoStore struct {
	db          *mongo.Database
	collections Collections
}

func NewMongoStore(db *mongo.Database, collections Collections) *MongoStore {
	return &MongoStore{db: db, collections: collections}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
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

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// CreateIndexes enforces uniqueness of the COD order ID, the sole key
// confirmation resolves transactions by.
func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	_, err := m.db.Collection(m.collections.Transactions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cod.orderID", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create cod.orderID index: %w", err)
	}
	return nil
}

func (m *MongoStore) FindTransactionByCODOrderID(ctx context.Context, codOrderID string) (*domain.Transaction, error) {
	var tx domain.Transaction

	filter := bson.M{"cod.orderID": codOrderID}
	err := m.db.Collection(m.collections.Transactions).FindOne(ctx, filter).Decode(&tx)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	return &tx, nil
}

func (m *MongoStore) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	now := time.Now()
	tx.ID = primitive.NewObjectID().Hex()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := m.db.Collection(m.collections.Transactions).InsertOne(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return tx, nil
}

func (m *MongoStore) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.ID = primitive.NewObjectID().Hex()
	order.CreatedAt = time.Now()

	_, err := m.db.Collection(m.collections.Orders).InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return order, nil
}

func (m *MongoStore) MarkCartPurchased(ctx context.Context, cartID string, purchasedAt time.Time) error {
	filter := bson.M{"_id": cartID}
	update := bson.M{"$set": bson.M{"purchasedAt": purchasedAt}}

	result, err := m.db.Collection(m.collections.Carts).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark cart purchased: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *MongoStore) UpdateTransaction(ctx context.Context, id string, update TransactionUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if update.OrderID != nil {
		set["order"] = *update.OrderID
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.ValidationStatus != nil {
		set["cod.validationStatus"] = *update.ValidationStatus
	}
	if update.DeliveryStatus != nil {
		set["cod.deliveryStatus"] = *update.DeliveryStatus
	}
	if update.PaymentCollected != nil {
		set["cod.paymentCollected"] = *update.PaymentCollected
	}
	if update.CollectionDate != nil {
		set["cod.collectionDate"] = *update.CollectionDate
	}

	result, err := m.db.Collection(m.collections.Transactions).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrTransactionNotFound
	}

	return nil
}
