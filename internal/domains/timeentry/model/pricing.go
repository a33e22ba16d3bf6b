package model

// UnitPrice resolves the per-seat price. USD prefers the override, then the base price, then the
// flat price. TZS follows the same order and falls back to USD converted at fxRate.
func (t TimeEntry) UnitPrice(fxRate int) (usd, tzs int) {
	usd = firstPositive(t.OverridePriceUSD, t.BasePriceUSD)
	if usd == 0 {
		usd = t.PriceUSD
	}

	tzs = firstPositive(t.OverridePriceTZS, t.BasePriceTZS)
	if tzs > 0 {
		return usd, tzs
	}

	if t.PriceTZS != nil {
		return usd, *t.PriceTZS
	}

	return usd, usd * fxRate
}

func firstPositive(values ...*int) int {
	for _, value := range values {
		if value != nil && *value > 0 {
			return *value
		}
	}

	return 0
}
