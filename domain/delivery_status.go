package domain

type DeliveryStatus string

const (
	DeliveryStatusPreparing      DeliveryStatus = "preparing"
	DeliveryStatusDispatched     DeliveryStatus = "dispatched"
	DeliveryStatusOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryStatusDelivered      DeliveryStatus = "delivered"
	DeliveryStatusReturned       DeliveryStatus = "returned"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusPreparing:      {DeliveryStatusDispatched},
	DeliveryStatusDispatched:     {DeliveryStatusOutForDelivery, DeliveryStatusReturned},
	DeliveryStatusOutForDelivery: {DeliveryStatusDelivered, DeliveryStatusReturned},
}

// CanTransitionTo reports whether a delivery may move from one status to
// another. Delivered and returned are terminal.
func CanTransitionTo(from, to DeliveryStatus) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusReturned
}

// String representation (for logging)
func (s DeliveryStatus) String() string {
	return string(s)
}
