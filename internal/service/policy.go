package service

import (
	"fmt"
	"math"
	"strings"
)

// Policy is the adapter configuration for COD eligibility and pricing.
// Every field is optional; a zero value disables its check. Policies are
// immutable values passed explicitly into InitiatePayment so the workflow
// carries no hidden configuration state.
type Policy struct {
	// MinimumOrder and MaximumOrder bound the cart subtotal, in the
	// smallest currency unit.
	MinimumOrder int64
	MaximumOrder int64

	// AllowedRegions lists ISO 3166-1 alpha-2 country codes where COD is
	// available. Checked against the shipping address country.
	AllowedRegions []string

	// SupportedCurrencies lists ISO 4217 currency codes eligible for COD.
	SupportedCurrencies []string

	// ServiceChargePercentage adds a percentage of the subtotal onto the
	// total, e.g. 2 for a 2% charge.
	ServiceChargePercentage float64

	// FixedServiceCharge adds a flat fee in the smallest currency unit.
	FixedServiceCharge int64
}

// ServiceCharge computes the COD fee on a subtotal. The percentage part
// rounds half away from zero; the fixed part is added verbatim.
func (p Policy) ServiceCharge(subtotal int64) int64 {
	var charge int64
	if p.ServiceChargePercentage != 0 {
		charge = int64(math.Round(float64(subtotal) * p.ServiceChargePercentage / 100))
	}
	charge += p.FixedServiceCharge
	return charge
}

// validate runs the configured eligibility checks against a checkout
// attempt. Currency is expected uppercased already.
func (p Policy) validate(currency string, subtotal int64, shippingAddress map[string]any) error {
	if len(p.SupportedCurrencies) > 0 && !containsFold(p.SupportedCurrencies, currency) {
		return fmt.Errorf("%w: COD is not available for %s, supported currencies: %s",
			ErrUnsupportedCurrency, currency, strings.Join(p.SupportedCurrencies, ", "))
	}

	// Bounds are stored in minor units; the message prints major units.
	if p.MinimumOrder > 0 && subtotal < p.MinimumOrder {
		return fmt.Errorf("%w: order amount must be at least %g %s",
			ErrOrderBelowMinimum, float64(p.MinimumOrder)/100, currency)
	}

	if p.MaximumOrder > 0 && subtotal > p.MaximumOrder {
		return fmt.Errorf("%w: order amount must not exceed %g %s",
			ErrOrderAboveMaximum, float64(p.MaximumOrder)/100, currency)
	}

	if len(p.AllowedRegions) > 0 && shippingAddress != nil {
		country, _ := shippingAddress["country"].(string)
		if country != "" && !containsFold(p.AllowedRegions, country) {
			return fmt.Errorf("%w: COD is not available in %s, available regions: %s",
				ErrRegionNotAllowed, country, strings.Join(p.AllowedRegions, ", "))
		}
	}

	return nil
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
