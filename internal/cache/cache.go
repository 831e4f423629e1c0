package cache

import (
	"context"
	"errors"
	"time"

	"github.com/technewwings/payload-ecommerce-cod/domain"
)

type StatusCache interface {
	Get(ctx context.Context, codOrderID string) (*domain.CODStatus, error)
	Set(ctx context.Context, codOrderID string, status *domain.CODStatus) error
	Delete(ctx context.Context, codOrderID string) error
}

// ConfirmGuard serializes confirmations of the same COD order. Acquire
// returns false when another confirmation currently holds the guard.
type ConfirmGuard interface {
	Acquire(ctx context.Context, codOrderID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, codOrderID string) error
}

var ErrCacheMiss = errors.New("cache miss")
