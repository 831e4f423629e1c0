package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/technewwings/payload-ecommerce-cod/internal/cache"
	"github.com/technewwings/payload-ecommerce-cod/internal/publisher"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

const (
	// Name is the payment method tag carried by every transaction.
	Name = "cod"

	DefaultLabel = "Cash on Delivery"

	confirmGuardTTL = 30 * time.Second
)

// Config wires the COD payment service. Store is required; Cache, Guard
// and Events are optional and disable their feature when nil.
type Config struct {
	Store  store.Store
	Cache  cache.StatusCache
	Guard  cache.ConfirmGuard
	Events publisher.Publisher
	Logger zerolog.Logger
	Label  string
}

// Service implements the two-phase COD payment workflow: initiation opens
// a pending transaction, confirmation materializes the order and closes
// out cart and transaction state. Both operations are stateless against
// the shared store.
type Service struct {
	store  store.Store
	cache  cache.StatusCache
	guard  cache.ConfirmGuard
	events publisher.Publisher
	logger zerolog.Logger
	label  string
	sfg    singleflight.Group // prevents status cache stampede
}

func New(cfg Config) *Service {
	label := cfg.Label
	if label == "" {
		label = DefaultLabel
	}
	return &Service{
		store:  cfg.Store,
		cache:  cfg.Cache,
		guard:  cfg.Guard,
		events: cfg.Events,
		logger: cfg.Logger,
		label:  label,
	}
}

func (s *Service) Label() string {
	return s.label
}

// ClientConfig describes the adapter's client-side capabilities.
type ClientConfig struct {
	Name            string `json:"name"`
	Label           string `json:"label"`
	InitiatePayment bool   `json:"initiatePayment"`
	ConfirmOrder    bool   `json:"confirmOrder"`
}

func (s *Service) ClientConfig() ClientConfig {
	return ClientConfig{
		Name:            Name,
		Label:           s.label,
		InitiatePayment: true,
		ConfirmOrder:    true,
	}
}

// publish sends a lifecycle event best effort. Failures are logged and
// never fail the operation that produced them.
func (s *Service) publish(ctx context.Context, event publisher.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event_type", event.Type).Str("cod_order_id", event.CODOrderID).
			Msg("failed to publish COD event")
	}
}

// invalidateStatus drops the cached status view after a state change.
func (s *Service) invalidateStatus(codOrderID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, codOrderID); err != nil {
		s.logger.Warn().Err(err).Str("cod_order_id", codOrderID).Msg("failed to invalidate status cache")
	}
}
