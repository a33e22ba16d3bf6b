package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/internal/domains/timeentry/model"
	"charter/shared"
)

func TestTimeEntry_UnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		entry   model.TimeEntry
		wantUSD int
		wantTZS int
	}{
		{
			name:    "flat price converted",
			entry:   model.TimeEntry{PriceUSD: 298},
			wantUSD: 298,
			wantTZS: 298 * 2450,
		},
		{
			name:    "explicit flat tzs",
			entry:   model.TimeEntry{PriceUSD: 298, PriceTZS: shared.Ptr(700000)},
			wantUSD: 298,
			wantTZS: 700000,
		},
		{
			name:    "base beats flat",
			entry:   model.TimeEntry{PriceUSD: 298, BasePriceUSD: shared.Ptr(250)},
			wantUSD: 250,
			wantTZS: 250 * 2450,
		},
		{
			name: "override beats base",
			entry: model.TimeEntry{
				PriceUSD:         298,
				BasePriceUSD:     shared.Ptr(250),
				OverridePriceUSD: shared.Ptr(200),
				BasePriceTZS:     shared.Ptr(600000),
				OverridePriceTZS: shared.Ptr(500000),
			},
			wantUSD: 200,
			wantTZS: 500000,
		},
		{
			name:    "zero override ignored",
			entry:   model.TimeEntry{PriceUSD: 298, OverridePriceUSD: shared.Ptr(0), BasePriceTZS: shared.Ptr(650000)},
			wantUSD: 298,
			wantTZS: 650000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usd, tzs := tt.entry.UnitPrice(2450)

			assert.Equal(t, tt.wantUSD, usd)
			assert.Equal(t, tt.wantTZS, tzs)
		})
	}
}

func TestTimeEntry_Booked(t *testing.T) {
	assert.Equal(t, 2, model.TimeEntry{Capacity: 5, SeatsAvailable: 3}.Booked())
}
