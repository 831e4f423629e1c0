package domain

import "time"

// PaymentMethodCOD tags every transaction created by this service.
const PaymentMethodCOD = "cod"

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSucceeded TransactionStatus = "succeeded"
)

type ValidationStatus string

const (
	ValidationStatusPending   ValidationStatus = "pending"
	ValidationStatusValidated ValidationStatus = "validated"
	ValidationStatusRejected  ValidationStatus = "rejected"
)

// CODDetails is the cash-on-delivery sub-record nested on a transaction.
// OrderID is the externally visible correlation key; it is unique across
// all transactions and is the sole key confirmation looks a transaction
// up by.
type CODDetails struct {
	OrderID          string           `bson:"orderID" json:"orderID"`
	ValidationStatus ValidationStatus `bson:"validationStatus" json:"validationStatus"`
	DeliveryStatus   DeliveryStatus   `bson:"deliveryStatus" json:"deliveryStatus"`
	PaymentCollected bool             `bson:"paymentCollected" json:"paymentCollected"`
	CollectionDate   *time.Time       `bson:"collectionDate,omitempty" json:"collectionDate,omitempty"`
}

// Transaction correlates a checkout attempt with its eventual order. It
// owns an immutable snapshot of the cart lines taken at initiation;
// confirmation never re-reads the live cart.
type Transaction struct {
	ID             string            `bson:"_id,omitempty" json:"id"`
	Customer       string            `bson:"customer,omitempty" json:"customer,omitempty"`
	CustomerEmail  string            `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	Amount         int64             `bson:"amount" json:"amount"`
	Currency       string            `bson:"currency" json:"currency"`
	BillingAddress map[string]any    `bson:"billingAddress,omitempty" json:"billingAddress,omitempty"`
	CartID         string            `bson:"cart" json:"cart"`
	Items          []LineItem        `bson:"items" json:"items"`
	PaymentMethod  string            `bson:"paymentMethod" json:"paymentMethod"`
	OrderID        string            `bson:"order,omitempty" json:"order,omitempty"`
	Status         TransactionStatus `bson:"status" json:"status"`
	COD            CODDetails        `bson:"cod" json:"cod"`
	CreatedAt      time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// CODStatus is the read-model view of a transaction's COD state, served
// to fulfillment staff and cached between reads.
type CODStatus struct {
	OrderID           string            `json:"orderID"`
	TransactionID     string            `json:"transactionID"`
	TransactionStatus TransactionStatus `json:"transactionStatus"`
	ValidationStatus  ValidationStatus  `json:"validationStatus"`
	DeliveryStatus    DeliveryStatus    `json:"deliveryStatus"`
	PaymentCollected  bool              `json:"paymentCollected"`
	CollectionDate    *time.Time        `json:"collectionDate,omitempty"`
}

func (t *Transaction) CODStatus() *CODStatus {
	return &CODStatus{
		OrderID:           t.COD.OrderID,
		TransactionID:     t.ID,
		TransactionStatus: t.Status,
		ValidationStatus:  t.COD.ValidationStatus,
		DeliveryStatus:    t.COD.DeliveryStatus,
		PaymentCollected:  t.COD.PaymentCollected,
		CollectionDate:    t.COD.CollectionDate,
	}
}
