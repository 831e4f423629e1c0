package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/cache"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

// GetStatus returns the COD state of a transaction for fulfillment staff,
// cache-aside through Redis when a cache is configured.
func (s *Service) GetStatus(ctx context.Context, codOrderID string) (*domain.CODStatus, error) {
	if codOrderID == "" {
		return nil, ErrMissingOrderID
	}

	if s.cache == nil {
		return s.loadStatus(ctx, codOrderID)
	}

	// Singleflight collapses concurrent cache misses for the same key.
	v, err, _ := s.sfg.Do(codOrderID, func() (interface{}, error) {
		status, err := s.cache.Get(ctx, codOrderID)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("cod_order_id", codOrderID).Msg("status cache get failed")
		}

		status, err = s.loadStatus(ctx, codOrderID)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), codOrderID, status); errSet != nil {
				s.logger.Warn().Err(errSet).Str("cod_order_id", codOrderID).Msg("status cache set failed")
			}
		}()

		return status, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.CODStatus), nil
}

func (s *Service) loadStatus(ctx context.Context, codOrderID string) (*domain.CODStatus, error) {
	tx, err := s.store.FindTransactionByCODOrderID(ctx, codOrderID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load COD status: %w", err)
	}
	return tx.CODStatus(), nil
}
