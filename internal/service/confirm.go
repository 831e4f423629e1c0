package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/publisher"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

// ConfirmRequest finalizes a previously initiated COD transaction. Owner
// is the confirming caller; its email is used as the order owner tag when
// no authenticated customer is present.
type ConfirmRequest struct {
	CODOrderID string
	Owner      domain.Owner
}

type ConfirmResult struct {
	Message       string `json:"message"`
	OrderID       string `json:"orderID"`
	TransactionID string `json:"transactionID"`
}

// ConfirmOrder resolves the pending transaction by its COD order ID,
// materializes an order from the transaction's frozen snapshot, stamps
// the cart purchased and marks the transaction validated. The three
// writes are sequential and not atomic as a unit; a transaction already
// confirmed is rejected with ErrAlreadyConfirmed instead of being
// reprocessed.
func (s *Service) ConfirmOrder(ctx context.Context, req *ConfirmRequest) (*ConfirmResult, error) {
	if req.CODOrderID == "" {
		return nil, ErrMissingOrderID
	}

	if s.guard != nil {
		acquired, err := s.guard.Acquire(ctx, req.CODOrderID, confirmGuardTTL)
		if err != nil {
			// The guard is an optimization; confirmation stays available
			// when it is unreachable.
			s.logger.Warn().Err(err).Str("cod_order_id", req.CODOrderID).Msg("confirm guard unavailable")
		} else if !acquired {
			return nil, ErrConfirmationInProgress
		} else {
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), req.CODOrderID); err != nil {
					s.logger.Warn().Err(err).Str("cod_order_id", req.CODOrderID).Msg("failed to release confirm guard")
				}
			}()
		}
	}

	tx, err := s.store.FindTransactionByCODOrderID(ctx, req.CODOrderID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("cod_order_id", req.CODOrderID).Msg("error confirming COD order")
		return nil, fmt.Errorf("error confirming COD order: %w", err)
	}

	if tx.Status == domain.TransactionStatusSucceeded {
		return nil, ErrAlreadyConfirmed
	}

	if tx.CartID == "" {
		return nil, ErrMissingCartReference
	}

	if len(tx.Items) == 0 {
		return nil, ErrInvalidItemSnapshot
	}

	order := &domain.Order{
		Amount:   tx.Amount,
		Currency: tx.Currency,
		Items:    tx.Items,
		// The billing address is the only address retained on a transaction.
		ShippingAddress: tx.BillingAddress,
		Status:          domain.OrderStatusProcessing,
		Transactions:    []string{tx.ID},
	}
	if req.Owner.Authenticated() {
		order.Customer = req.Owner.CustomerID()
	} else {
		order.CustomerEmail = req.Owner.Email()
	}

	order, err = s.store.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("cod_order_id", req.CODOrderID).Msg("error confirming COD order")
		return nil, fmt.Errorf("error confirming COD order: %w", err)
	}

	if err := s.store.MarkCartPurchased(ctx, tx.CartID, time.Now()); err != nil {
		s.logger.Error().Err(err).Str("cod_order_id", req.CODOrderID).Str("cart_id", tx.CartID).
			Msg("error confirming COD order")
		return nil, fmt.Errorf("error confirming COD order: %w", err)
	}

	succeeded := domain.TransactionStatusSucceeded
	validated := domain.ValidationStatusValidated
	update := store.TransactionUpdate{
		OrderID:          &order.ID,
		Status:           &succeeded,
		ValidationStatus: &validated,
	}
	if err := s.store.UpdateTransaction(ctx, tx.ID, update); err != nil {
		s.logger.Error().Err(err).Str("cod_order_id", req.CODOrderID).Str("transaction_id", tx.ID).
			Msg("error confirming COD order")
		return nil, fmt.Errorf("error confirming COD order: %w", err)
	}

	s.invalidateStatus(req.CODOrderID)

	event := publisher.NewEvent(publisher.TypeOrderConfirmed, req.CODOrderID, tx.ID, tx.Amount, tx.Currency)
	event.OrderID = order.ID
	s.publish(ctx, event)

	return &ConfirmResult{
		Message:       "COD order confirmed successfully",
		OrderID:       order.ID,
		TransactionID: tx.ID,
	}, nil
}
