package domain

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is materialized only at confirmation, from the transaction's
// frozen snapshot. It references carts and transactions by identifier
// without owning them.
type Order struct {
	ID              string         `bson:"_id,omitempty" json:"id"`
	Customer        string         `bson:"customer,omitempty" json:"customer,omitempty"`
	CustomerEmail   string         `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	Amount          int64          `bson:"amount" json:"amount"`
	Currency        string         `bson:"currency" json:"currency"`
	Items           []LineItem     `bson:"items" json:"items"`
	ShippingAddress map[string]any `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	Status          OrderStatus    `bson:"status" json:"status"`
	Transactions    []string       `bson:"transactions" json:"transactions"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
}
