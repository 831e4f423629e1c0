package service

import (
	"context"
	"fmt"
	"math/rand"
	"net/mail"
	"strings"
	"time"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/publisher"
)

// InitiateRequest is a single checkout attempt against the COD method.
type InitiateRequest struct {
	Cart            *domain.CartSnapshot
	Currency        string
	Owner           domain.Owner
	BillingAddress  map[string]any
	ShippingAddress map[string]any
}

type InitiateResult struct {
	Message       string `json:"message"`
	OrderID       string `json:"orderID"`
	ServiceCharge int64  `json:"serviceCharge,omitempty"`
}

// InitiatePayment validates eligibility of a checkout attempt against the
// given policy and opens a pending transaction carrying a frozen snapshot
// of the cart. The cart itself is not mutated at this phase.
func (s *Service) InitiatePayment(ctx context.Context, policy Policy, req *InitiateRequest) (*InitiateResult, error) {
	if req.Currency == "" {
		return nil, ErrMissingCurrency
	}

	if req.Cart == nil || len(req.Cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if !req.Owner.Authenticated() {
		if _, err := mail.ParseAddress(req.Owner.Email()); err != nil {
			return nil, ErrInvalidCustomerEmail
		}
	}

	subtotal := req.Cart.Subtotal
	if subtotal <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToUpper(req.Currency)
	if err := policy.validate(currency, subtotal, req.ShippingAddress); err != nil {
		return nil, err
	}

	serviceCharge := policy.ServiceCharge(subtotal)
	totalAmount := subtotal + serviceCharge

	codOrderID := newCODOrderID(time.Now())

	tx := &domain.Transaction{
		Customer:       req.Owner.CustomerID(),
		CustomerEmail:  req.Owner.Email(),
		Amount:         totalAmount,
		Currency:       currency,
		BillingAddress: req.BillingAddress,
		CartID:         req.Cart.ID,
		Items:          flattenItems(req.Cart.Items),
		PaymentMethod:  domain.PaymentMethodCOD,
		Status:         domain.TransactionStatusPending,
		COD: domain.CODDetails{
			OrderID:          codOrderID,
			ValidationStatus: domain.ValidationStatusPending,
			DeliveryStatus:   domain.DeliveryStatusPreparing,
			PaymentCollected: false,
		},
	}

	tx, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", req.Cart.ID).Msg("error initiating COD payment")
		return nil, fmt.Errorf("error initiating COD payment: %w", err)
	}

	s.publish(ctx, publisher.NewEvent(publisher.TypePaymentInitiated, codOrderID, tx.ID, totalAmount, currency))

	return &InitiateResult{
		Message:       "COD order initiated successfully",
		OrderID:       codOrderID,
		ServiceCharge: serviceCharge,
	}, nil
}

// flattenItems resolves product and variant references down to bare
// identifiers, discarding any embedded document expansion. Extra
// line-level properties are copied onto the snapshot unchanged.
func flattenItems(lines []domain.CartLine) []domain.LineItem {
	items := make([]domain.LineItem, len(lines))
	for i, line := range lines {
		extra := make(map[string]any, len(line.Extra))
		for k, v := range line.Extra {
			extra[k] = v
		}
		items[i] = domain.LineItem{
			Product:  resolveRef(line.Product),
			Variant:  resolveRef(line.Variant),
			Quantity: line.Quantity,
			Extra:    extra,
		}
	}
	return items
}

func resolveRef(ref any) string {
	switch v := ref.(type) {
	case string:
		return v
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return id
		}
	}
	return ""
}

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newCODOrderID builds the externally visible correlation key: a
// time-ordered prefix plus a random suffix, unique with overwhelming
// probability.
func newCODOrderID(now time.Time) string {
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = base36Upper[rand.Intn(len(base36Upper))]
	}
	return fmt.Sprintf("COD-%d-%s", now.UnixMilli(), suffix)
}
