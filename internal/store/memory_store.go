package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/technewwings/payload-ecommerce-cod/domain"
)

// MemoryStore implements Store with in-memory storage. Used by tests and
// local runs without a MongoDB instance.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	orders       map[string]*domain.Order
	purchased    map[string]time.Time // cartID -> purchasedAt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*domain.Transaction),
		orders:       make(map[string]*domain.Order),
		purchased:    make(map[string]time.Time),
	}
}

func (s *MemoryStore) FindTransactionByCODOrderID(_ context.Context, codOrderID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		if tx.COD.OrderID == codOrderID {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (s *MemoryStore) CreateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	tx.ID = uuid.NewString()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	copied := *tx
	s.transactions[tx.ID] = &copied
	return tx, nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now()

	copied := *order
	s.orders[order.ID] = &copied
	return order, nil
}

func (s *MemoryStore) MarkCartPurchased(_ context.Context, cartID string, purchasedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purchased[cartID] = purchasedAt
	return nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, id string, update TransactionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.transactions[id]
	if !exists {
		return ErrTransactionNotFound
	}

	if update.OrderID != nil {
		tx.OrderID = *update.OrderID
	}
	if update.Status != nil {
		tx.Status = *update.Status
	}
	if update.ValidationStatus != nil {
		tx.COD.ValidationStatus = *update.ValidationStatus
	}
	if update.DeliveryStatus != nil {
		tx.COD.DeliveryStatus = *update.DeliveryStatus
	}
	if update.PaymentCollected != nil {
		tx.COD.PaymentCollected = *update.PaymentCollected
	}
	if update.CollectionDate != nil {
		tx.COD.CollectionDate = update.CollectionDate
	}
	tx.UpdatedAt = time.Now()

	return nil
}

// GetOrder returns a stored order by its identifier.
func (s *MemoryStore) GetOrder(id string) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, false
	}
	copied := *order
	return &copied, true
}

// CartPurchasedAt returns the purchasedAt stamp for a cart, if set.
func (s *MemoryStore) CartPurchasedAt(cartID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, exists := s.purchased[cartID]
	return at, exists
}

// OrderCount reports how many orders have been created.
func (s *MemoryStore) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.orders)
}
