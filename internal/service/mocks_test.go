package service

import (
	"context"
	"time"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/cache"
	"github.com/technewwings/payload-ecommerce-cod/internal/publisher"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

// MockStore implements store.Store for testing
type MockStore struct {
	Transaction    *domain.Transaction // returned by FindTransactionByCODOrderID
	FindErr        error
	CreateTxErr    error
	CreateOrderErr error
	MarkCartErr    error
	UpdateTxErr    error

	AssignTxID    string
	AssignOrderID string

	FindCalls          int
	CreatedTransaction *domain.Transaction // captures the transaction passed to CreateTransaction
	CreatedOrders      []*domain.Order
	PurchasedCarts     []string
	TransactionUpdates []store.TransactionUpdate
}

func (m *MockStore) FindTransactionByCODOrderID(_ context.Context, _ string) (*domain.Transaction, error) {
	m.FindCalls++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.Transaction, nil
}

func (m *MockStore) CreateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateTxErr != nil {
		return nil, m.CreateTxErr
	}
	tx.ID = m.AssignTxID
	m.CreatedTransaction = tx
	return tx, nil
}

func (m *MockStore) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if m.CreateOrderErr != nil {
		return nil, m.CreateOrderErr
	}
	order.ID = m.AssignOrderID
	m.CreatedOrders = append(m.CreatedOrders, order)
	return order, nil
}

func (m *MockStore) MarkCartPurchased(_ context.Context, cartID string, _ time.Time) error {
	if m.MarkCartErr != nil {
		return m.MarkCartErr
	}
	m.PurchasedCarts = append(m.PurchasedCarts, cartID)
	return nil
}

func (m *MockStore) UpdateTransaction(_ context.Context, _ string, update store.TransactionUpdate) error {
	if m.UpdateTxErr != nil {
		return m.UpdateTxErr
	}
	m.TransactionUpdates = append(m.TransactionUpdates, update)
	return nil
}

// MockPublisher implements publisher.Publisher for testing
type MockPublisher struct {
	Events []publisher.Event
	Err    error
}

func (m *MockPublisher) Publish(_ context.Context, event publisher.Event) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}

// MockCache implements cache.StatusCache for testing
type MockCache struct {
	Stored  map[string]*domain.CODStatus
	GetErr  error
	Deletes []string
}

func NewMockCache() *MockCache {
	return &MockCache{Stored: make(map[string]*domain.CODStatus)}
}

func (m *MockCache) Get(_ context.Context, codOrderID string) (*domain.CODStatus, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	status, exists := m.Stored[codOrderID]
	if !exists {
		return nil, cache.ErrCacheMiss
	}
	return status, nil
}

func (m *MockCache) Set(_ context.Context, codOrderID string, status *domain.CODStatus) error {
	m.Stored[codOrderID] = status
	return nil
}

func (m *MockCache) Delete(_ context.Context, codOrderID string) error {
	delete(m.Stored, codOrderID)
	m.Deletes = append(m.Deletes, codOrderID)
	return nil
}

// MockGuard implements cache.ConfirmGuard for testing
type MockGuard struct {
	Acquired   bool
	AcquireErr error
	Releases   []string
}

func (m *MockGuard) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	return m.Acquired, nil
}

func (m *MockGuard) Release(_ context.Context, codOrderID string) error {
	m.Releases = append(m.Releases, codOrderID)
	return nil
}
