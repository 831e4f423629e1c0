package store

import (
	"context"
	"errors"
	"time"

	"github.com/technewwings/payload-ecommerce-cod/domain"
)

var (
	ErrTransactionNotFound = errors.New("no transaction found for the provided COD order ID")
	ErrCartNotFound        = errors.New("cart not found")
)

// Collections carries the configurable collection names. They are
// passed through to the backing store unchanged.
type Collections struct {
	Carts        string
	Orders       string
	Transactions string
}

func DefaultCollections() Collections {
	return Collections{
		Carts:        "carts",
		Orders:       "orders",
		Transactions: "transactions",
	}
}

// TransactionUpdate is a partial update applied to a transaction. Nil
// fields are left untouched; COD sub-fields not named here are preserved.
type TransactionUpdate struct {
	OrderID          *string
	Status           *domain.TransactionStatus
	ValidationStatus *domain.ValidationStatus
	DeliveryStatus   *domain.DeliveryStatus
	PaymentCollected *bool
	CollectionDate   *time.Time
}

// Store defines the persistence operations the payment workflow needs.
// Per-document create/update is atomic; the three confirmation writes are
// not atomic as a unit.
type Store interface {
	// FindTransactionByCODOrderID resolves a transaction by its COD
	// order ID. The store is the uniqueness authority for that key.
	FindTransactionByCODOrderID(ctx context.Context, codOrderID string) (*domain.Transaction, error)

	// CreateTransaction persists a new transaction and returns it with
	// its store-assigned identifier set.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)

	// CreateOrder persists a new order and returns it with its
	// store-assigned identifier set.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// MarkCartPurchased stamps purchasedAt on the cart, marking it consumed.
	MarkCartPurchased(ctx context.Context, cartID string, purchasedAt time.Time) error

	// UpdateTransaction applies a partial update to the transaction with
	// the given identifier.
	UpdateTransaction(ctx context.Context, id string, update TransactionUpdate) error
}
