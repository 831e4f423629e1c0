package domain

// CartLine is a single line of the cart as submitted at checkout time.
// Product and Variant may be bare identifiers or an expanded document
// carrying an "id" key; Extra holds any additional line-level properties
// and is preserved verbatim on the stored snapshot.
type CartLine struct {
	Product  any            `json:"product"`
	Variant  any            `json:"variant,omitempty"`
	Quantity int            `json:"quantity"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// CartSnapshot represents the read-only view of a cart at initiation time.
// Subtotal is in the smallest currency unit.
type CartSnapshot struct {
	ID       string     `json:"id"`
	Items    []CartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// LineItem is the flattened, typed form of a cart line as frozen onto a
// transaction. Product and Variant are bare identifiers only.
type LineItem struct {
	Product  string         `bson:"product" json:"product"`
	Variant  string         `bson:"variant,omitempty" json:"variant,omitempty"`
	Quantity int            `bson:"quantity" json:"quantity"`
	Extra    map[string]any `bson:",inline" json:"extra,omitempty"`
}
