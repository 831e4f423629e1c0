package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/publisher"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

func pendingTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:       "transaction-123",
		CartID:   "cart-123",
		Amount:   5000,
		Currency: "USD",
		Items: []domain.LineItem{
			{Product: "product-123", Quantity: 2},
		},
		BillingAddress: map[string]any{
			"street": "123 Main St", "city": "Test City", "country": "US",
		},
		PaymentMethod: domain.PaymentMethodCOD,
		Status:        domain.TransactionStatusPending,
		COD: domain.CODDetails{
			OrderID:          "COD-123456",
			ValidationStatus: domain.ValidationStatusPending,
			DeliveryStatus:   domain.DeliveryStatusPreparing,
		},
	}
}

func TestConfirmOrder_Success(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), AssignOrderID: "order-123"}
	svc := newTestService(mock)

	result, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{
		CODOrderID: "COD-123456",
		Owner:      domain.AuthenticatedOwner("user-123"),
	})

	require.NoError(t, err)
	assert.Equal(t, "COD order confirmed successfully", result.Message)
	assert.Equal(t, "order-123", result.OrderID)
	assert.Equal(t, "transaction-123", result.TransactionID)

	// Exactly one order created and two updates: cart, then transaction.
	require.Len(t, mock.CreatedOrders, 1)
	require.Len(t, mock.PurchasedCarts, 1)
	require.Len(t, mock.TransactionUpdates, 1)
	assert.Equal(t, "cart-123", mock.PurchasedCarts[0])

	order := mock.CreatedOrders[0]
	assert.Equal(t, int64(5000), order.Amount)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Equal(t, []string{"transaction-123"}, order.Transactions)
	assert.Equal(t, "user-123", order.Customer)
	// Billing address is the only address retained on a transaction.
	assert.Equal(t, "Test City", order.ShippingAddress["city"])
	require.Len(t, order.Items, 1)
	assert.Equal(t, "product-123", order.Items[0].Product)

	update := mock.TransactionUpdates[0]
	require.NotNil(t, update.OrderID)
	assert.Equal(t, "order-123", *update.OrderID)
	require.NotNil(t, update.Status)
	assert.Equal(t, domain.TransactionStatusSucceeded, *update.Status)
	require.NotNil(t, update.ValidationStatus)
	assert.Equal(t, domain.ValidationStatusValidated, *update.ValidationStatus)
	// Other COD sub-fields are left untouched.
	assert.Nil(t, update.DeliveryStatus)
	assert.Nil(t, update.PaymentCollected)
}

func TestConfirmOrder_GuestEmailFallback(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), AssignOrderID: "order-123"}
	svc := newTestService(mock)

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{
		CODOrderID: "COD-123456",
		Owner:      domain.GuestOwner("guest@example.com"),
	})

	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", mock.CreatedOrders[0].CustomerEmail)
	assert.Empty(t, mock.CreatedOrders[0].Customer)
}

func TestConfirmOrder_MissingOrderID(t *testing.T) {
	mock := &MockStore{}
	svc := newTestService(mock)

	result, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{})

	assert.ErrorIs(t, err, ErrMissingOrderID)
	assert.Nil(t, result)
	// Fails before any store call.
	assert.Zero(t, mock.FindCalls)
}

func TestConfirmOrder_TransactionNotFound(t *testing.T) {
	mock := &MockStore{FindErr: store.ErrTransactionNotFound}
	svc := newTestService(mock)

	result, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-INVALID"})

	assert.ErrorIs(t, err, store.ErrTransactionNotFound)
	assert.Nil(t, result)
	assert.Empty(t, mock.CreatedOrders)
}

func TestConfirmOrder_AlreadyConfirmed(t *testing.T) {
	tx := pendingTransaction()
	tx.Status = domain.TransactionStatusSucceeded
	mock := &MockStore{Transaction: tx}
	svc := newTestService(mock)

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Empty(t, mock.CreatedOrders)
	assert.Empty(t, mock.PurchasedCarts)
	assert.Empty(t, mock.TransactionUpdates)
}

func TestConfirmOrder_SecondInvocationCreatesNoSecondOrder(t *testing.T) {
	st := store.NewMemoryStore()
	svc := New(Config{Store: st, Logger: zerolog.Nop()})

	tx := pendingTransaction()
	tx.ID = ""
	_, err := st.CreateTransaction(context.Background(), tx)
	require.NoError(t, err)

	req := &ConfirmRequest{CODOrderID: "COD-123456", Owner: domain.GuestOwner("guest@example.com")}

	_, err = svc.ConfirmOrder(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.ConfirmOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, 1, st.OrderCount())
}

func TestConfirmOrder_MissingCartReference(t *testing.T) {
	tx := pendingTransaction()
	tx.CartID = ""
	mock := &MockStore{Transaction: tx}
	svc := newTestService(mock)

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	assert.ErrorIs(t, err, ErrMissingCartReference)
	assert.Empty(t, mock.CreatedOrders)
}

func TestConfirmOrder_InvalidItemSnapshot(t *testing.T) {
	tx := pendingTransaction()
	tx.Items = nil
	mock := &MockStore{Transaction: tx}
	svc := newTestService(mock)

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	assert.ErrorIs(t, err, ErrInvalidItemSnapshot)
	assert.Empty(t, mock.CreatedOrders)
}

func TestConfirmOrder_StoreFailureOnOrderCreate(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), CreateOrderErr: errors.New("write timeout")}
	svc := newTestService(mock)

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error confirming COD order")
	assert.Contains(t, err.Error(), "write timeout")
	assert.Empty(t, mock.TransactionUpdates)
}

func TestConfirmOrder_GuardRejectsConcurrentConfirm(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction()}
	guard := &MockGuard{Acquired: false}
	svc := New(Config{Store: mock, Guard: guard, Logger: zerolog.Nop()})

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	assert.ErrorIs(t, err, ErrConfirmationInProgress)
	assert.Zero(t, mock.FindCalls)
}

func TestConfirmOrder_GuardReleasedAfterConfirm(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), AssignOrderID: "order-123"}
	guard := &MockGuard{Acquired: true}
	svc := New(Config{Store: mock, Guard: guard, Logger: zerolog.Nop()})

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	require.NoError(t, err)
	assert.Equal(t, []string{"COD-123456"}, guard.Releases)
}

func TestConfirmOrder_GuardFailureDoesNotBlockConfirm(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), AssignOrderID: "order-123"}
	guard := &MockGuard{AcquireErr: errors.New("redis down")}
	svc := New(Config{Store: mock, Guard: guard, Logger: zerolog.Nop()})

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	assert.NoError(t, err)
}

func TestConfirmOrder_PublishesEvent(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), AssignOrderID: "order-123"}
	events := &MockPublisher{}
	svc := New(Config{Store: mock, Events: events, Logger: zerolog.Nop()})

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	require.NoError(t, err)
	require.Len(t, events.Events, 1)
	assert.Equal(t, publisher.TypeOrderConfirmed, events.Events[0].Type)
	assert.Equal(t, "order-123", events.Events[0].OrderID)
}

func TestConfirmOrder_InvalidatesStatusCache(t *testing.T) {
	mock := &MockStore{Transaction: pendingTransaction(), AssignOrderID: "order-123"}
	statusCache := NewMockCache()
	svc := New(Config{Store: mock, Cache: statusCache, Logger: zerolog.Nop()})

	_, err := svc.ConfirmOrder(context.Background(), &ConfirmRequest{CODOrderID: "COD-123456"})

	require.NoError(t, err)
	assert.Equal(t, []string{"COD-123456"}, statusCache.Deletes)
}
