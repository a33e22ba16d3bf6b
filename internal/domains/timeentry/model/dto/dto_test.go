package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/internal/domains/timeentry/model"
	"charter/internal/domains/timeentry/model/dto"
	"charter/shared"
)

func TestCreateTimeEntryRequest_ToModel(t *testing.T) {
	req := dto.CreateTimeEntryRequest{
		RouteID:  "7c1c3f7e-5a43-4f5e-9d7b-0d0c8d1f1a11",
		Date:     "2026-03-02",
		Start:    "09:00",
		End:      "09:40",
		PriceUSD: 298,
		Capacity: 5,
	}

	entry := req.ToModel("ops-1")

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 5, entry.SeatsAvailable)
	assert.Equal(t, model.CurrencyUSD, entry.Currency)
	assert.Equal(t, model.DefaultFlightNo, entry.FlightNo)
	assert.Equal(t, model.DefaultCabin, entry.Cabin)
	assert.Equal(t, model.VisibilityPublic, entry.Visibility)
	assert.Equal(t, model.StatusPublished, entry.Status)
	assert.Equal(t, "ops-1", entry.CreatedBy)

	req.SeatsAvailable = shared.Ptr(2)
	assert.Equal(t, 2, req.ToModel("ops-1").SeatsAvailable)
}

func TestTimeEntryResponse_FromModel(t *testing.T) {
	var res dto.TimeEntryResponse
	res.FromModel(model.TimeEntry{ID: "te-1", PriceUSD: 100, BasePriceUSD: shared.Ptr(120)}, 2000)

	assert.Equal(t, "te-1", res.ID)
	assert.Equal(t, 120, res.UnitPriceUSD)
	assert.Equal(t, 240000, res.UnitPriceTZS)
}
