package domain

// Owner identifies who a transaction or order belongs to: either an
// authenticated customer reference or a free-form guest email. The two are
// mutually exclusive.
type Owner struct {
	customerID string
	email      string
}

func AuthenticatedOwner(customerID string) Owner {
	return Owner{customerID: customerID}
}

func GuestOwner(email string) Owner {
	return Owner{email: email}
}

func (o Owner) Authenticated() bool {
	return o.customerID != ""
}

func (o Owner) CustomerID() string {
	return o.customerID
}

func (o Owner) Email() string {
	return o.email
}
