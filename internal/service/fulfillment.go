package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

// UpdateDeliveryStatus moves a COD shipment along its delivery lifecycle.
// Only the transitions allowed by the delivery state machine are accepted.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, codOrderID string, next domain.DeliveryStatus) error {
	if codOrderID == "" {
		return ErrMissingOrderID
	}

	tx, err := s.findTransaction(ctx, codOrderID)
	if err != nil {
		return err
	}

	if !domain.CanTransitionTo(tx.COD.DeliveryStatus, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalDeliveryTransition, tx.COD.DeliveryStatus, next)
	}

	update := store.TransactionUpdate{DeliveryStatus: &next}
	if err := s.store.UpdateTransaction(ctx, tx.ID, update); err != nil {
		s.logger.Error().Err(err).Str("cod_order_id", codOrderID).Msg("failed to update delivery status")
		return fmt.Errorf("failed to update delivery status: %w", err)
	}

	s.invalidateStatus(codOrderID)
	return nil
}

// RecordCollection marks the cash as physically collected. Collection is
// only legal once confirmation has validated the transaction.
func (s *Service) RecordCollection(ctx context.Context, codOrderID string, collectedAt time.Time) error {
	if codOrderID == "" {
		return ErrMissingOrderID
	}

	tx, err := s.findTransaction(ctx, codOrderID)
	if err != nil {
		return err
	}

	if tx.COD.ValidationStatus != domain.ValidationStatusValidated {
		return ErrPaymentNotValidated
	}

	collected := true
	update := store.TransactionUpdate{
		PaymentCollected: &collected,
		CollectionDate:   &collectedAt,
	}
	if err := s.store.UpdateTransaction(ctx, tx.ID, update); err != nil {
		s.logger.Error().Err(err).Str("cod_order_id", codOrderID).Msg("failed to record collection")
		return fmt.Errorf("failed to record collection: %w", err)
	}

	s.invalidateStatus(codOrderID)
	return nil
}

func (s *Service) findTransaction(ctx context.Context, codOrderID string) (*domain.Transaction, error) {
	tx, err := s.store.FindTransactionByCODOrderID(ctx, codOrderID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return tx, nil
}
