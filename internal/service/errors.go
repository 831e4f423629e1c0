package service

import "errors"

// Validation errors: raised immediately with a user-facing message,
// never swallowed behind the generic operation errors.
var (
	ErrMissingCurrency      = errors.New("currency is required")
	ErrEmptyCart            = errors.New("cart is empty or not provided")
	ErrInvalidCustomerEmail = errors.New("a valid customer email is required to make a purchase")
	ErrInvalidAmount        = errors.New("a valid amount is required to initiate a payment")
	ErrUnsupportedCurrency  = errors.New("COD is not available for this currency")
	ErrOrderBelowMinimum    = errors.New("order amount is below the minimum for COD payment")
	ErrOrderAboveMaximum    = errors.New("order amount exceeds the maximum for COD payment")
	ErrRegionNotAllowed     = errors.New("COD is not available in this region")
	ErrMissingOrderID       = errors.New("COD order ID is required")
)

// Confirmation and fulfillment state errors.
var (
	ErrAlreadyConfirmed          = errors.New("COD order has already been confirmed")
	ErrConfirmationInProgress    = errors.New("a confirmation for this COD order is already in progress")
	ErrMissingCartReference      = errors.New("cart ID not found in the transaction")
	ErrInvalidItemSnapshot       = errors.New("cart items snapshot not found or invalid in the transaction")
	ErrIllegalDeliveryTransition = errors.New("illegal transition of delivery status")
	ErrPaymentNotValidated       = errors.New("transaction has not been validated yet")
)
