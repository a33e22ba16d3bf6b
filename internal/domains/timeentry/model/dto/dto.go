package dto

import (
	"charter/internal/domains/timeentry/model"
	"charter/shared"
	gDto "charter/shared/dto"
	gModel "charter/shared/model"
	"charter/shared/timezone"

	"github.com/google/uuid"
)

type CreateTimeEntryRequest struct {
	RouteID          string `json:"route_id"           validate:"required,uuid"`
	Date             string `json:"date"               validate:"required,datetime=2006-01-02"`
	Start            string `json:"start"              validate:"required,hhmm"`
	End              string `json:"end"                validate:"required,hhmm"`
	PriceUSD         int    `json:"price_usd"          validate:"min=0"`
	PriceTZS         *int   `json:"price_tzs"          validate:"omitempty,min=0"`
	BasePriceUSD     *int   `json:"base_price_usd"     validate:"omitempty,min=0"`
	BasePriceTZS     *int   `json:"base_price_tzs"     validate:"omitempty,min=0"`
	OverridePriceUSD *int   `json:"override_price_usd" validate:"omitempty,min=0"`
	OverridePriceTZS *int   `json:"override_price_tzs" validate:"omitempty,min=0"`
	Currency         string `json:"currency"           validate:"omitempty,oneof=USD TZS"`
	ExchangeRate     *int   `json:"exchange_rate"      validate:"omitempty,gt=0"`
	Capacity         int    `json:"capacity"           validate:"required,gt=0"`
	SeatsAvailable   *int   `json:"seats_available"    validate:"omitempty,min=0,ltefield=Capacity"`
	FlightNo         string `json:"flight_no"          validate:"omitempty,max=30"`
	Cabin            string `json:"cabin"              validate:"omitempty,max=30"`
	Visibility       string `json:"visibility"         validate:"omitempty,oneof=PUBLIC HIDDEN"`
	Status           string `json:"status"             validate:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
}

func (c *CreateTimeEntryRequest) ToModel(user string) model.TimeEntry {
	seats := c.Capacity
	if c.SeatsAvailable != nil {
		seats = *c.SeatsAvailable
	}

	return model.TimeEntry{
		ID:               uuid.NewString(),
		RouteID:          c.RouteID,
		Date:             c.Date,
		Start:            c.Start,
		End:              c.End,
		PriceUSD:         c.PriceUSD,
		PriceTZS:         c.PriceTZS,
		BasePriceUSD:     c.BasePriceUSD,
		BasePriceTZS:     c.BasePriceTZS,
		OverridePriceUSD: c.OverridePriceUSD,
		OverridePriceTZS: c.OverridePriceTZS,
		Currency:         orDefault(c.Currency, model.CurrencyUSD),
		ExchangeRate:     c.ExchangeRate,
		Capacity:         c.Capacity,
		SeatsAvailable:   seats,
		FlightNo:         orDefault(c.FlightNo, model.DefaultFlightNo),
		Cabin:            orDefault(c.Cabin, model.DefaultCabin),
		Visibility:       orDefault(c.Visibility, model.VisibilityPublic),
		Status:           orDefault(c.Status, model.StatusPublished),
		Metadata:         gModel.NewMetadata(timezone.Now(), user),
	}
}

// UpdateTimeEntryRequest changes prices, publishing state or capacity. Capacity is applied
// separately because seats_available must move with it.
type UpdateTimeEntryRequest struct {
	Start            string `db:"start_time"         json:"start"              validate:"omitempty,hhmm"`
	End              string `db:"end_time"           json:"end"                validate:"omitempty,hhmm"`
	PriceUSD         *int   `db:"price_usd"          json:"price_usd"          validate:"omitempty,min=0"`
	PriceTZS         *int   `db:"price_tzs"          json:"price_tzs"          validate:"omitempty,min=0"`
	BasePriceUSD     *int   `db:"base_price_usd"     json:"base_price_usd"     validate:"omitempty,min=0"`
	BasePriceTZS     *int   `db:"base_price_tzs"     json:"base_price_tzs"     validate:"omitempty,min=0"`
	OverridePriceUSD *int   `db:"override_price_usd" json:"override_price_usd" validate:"omitempty,min=0"`
	OverridePriceTZS *int   `db:"override_price_tzs" json:"override_price_tzs" validate:"omitempty,min=0"`
	ExchangeRate     *int   `db:"exchange_rate"      json:"exchange_rate"      validate:"omitempty,gt=0"`
	FlightNo         string `db:"flight_no"          json:"flight_no"          validate:"omitempty,max=30"`
	Cabin            string `db:"cabin"              json:"cabin"              validate:"omitempty,max=30"`
	Visibility       string `db:"visibility"         json:"visibility"         validate:"omitempty,oneof=PUBLIC HIDDEN"`
	Status           string `db:"status"             json:"status"             validate:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
	Capacity         *int   `json:"capacity"           validate:"omitempty,gt=0"`
	ClearOverride    bool   `json:"clear_override"`
}

type TimeEntryResponse struct {
	ID               string `json:"id"`
	RouteID          string `json:"route_id"`
	Date             string `json:"date"`
	Start            string `json:"start"`
	End              string `json:"end"`
	PriceUSD         int    `json:"price_usd"`
	PriceTZS         *int   `json:"price_tzs"`
	BasePriceUSD     *int   `json:"base_price_usd"`
	BasePriceTZS     *int   `json:"base_price_tzs"`
	OverridePriceUSD *int   `json:"override_price_usd"`
	OverridePriceTZS *int   `json:"override_price_tzs"`
	UnitPriceUSD     int    `json:"unit_price_usd"`
	UnitPriceTZS     int    `json:"unit_price_tzs"`
	Currency         string `json:"currency"`
	ExchangeRate     *int   `json:"exchange_rate"`
	Capacity         int    `json:"capacity"`
	SeatsAvailable   int    `json:"seats_available"`
	FlightNo         string `json:"flight_no"`
	Cabin            string `json:"cabin"`
	Visibility       string `json:"visibility"`
	Status           string `json:"status"`
	gDto.Metadata
}

func (r *TimeEntryResponse) FromModel(model model.TimeEntry, fxRate int) {
	r.ID = model.ID
	r.RouteID = model.RouteID
	r.Date = model.Date
	r.Start = model.Start
	r.End = model.End
	r.PriceUSD = model.PriceUSD
	r.PriceTZS = model.PriceTZS
	r.BasePriceUSD = model.BasePriceUSD
	r.BasePriceTZS = model.BasePriceTZS
	r.OverridePriceUSD = model.OverridePriceUSD
	r.OverridePriceTZS = model.OverridePriceTZS
	r.UnitPriceUSD, r.UnitPriceTZS = model.UnitPrice(fxRate)
	r.Currency = model.Currency
	r.ExchangeRate = model.ExchangeRate
	r.Capacity = model.Capacity
	r.SeatsAvailable = model.SeatsAvailable
	r.FlightNo = model.FlightNo
	r.Cabin = model.Cabin
	r.Visibility = model.Visibility
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetTimeEntriesResponse struct {
	TimeEntries []TimeEntryResponse `json:"time_entries"`
	TotalPage   int                 `json:"total_page"`
	TotalData   int                 `json:"total_data"`
}

func (r *GetTimeEntriesResponse) FromModels(models []model.TimeEntry, totalData, limit, fxRate int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.TimeEntries = make([]TimeEntryResponse, len(models))
	for i, mod := range models {
		r.TimeEntries[i].FromModel(mod, fxRate)
	}
}

type AvailabilityResponse struct {
	RouteID string              `json:"route_id"`
	Date    string              `json:"date"`
	Items   []TimeEntryResponse `json:"items"`
}

func (r *AvailabilityResponse) FromModels(routeID, date string, models []model.TimeEntry, fxRate int) {
	r.RouteID = routeID
	r.Date = date

	r.Items = make([]TimeEntryResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod, fxRate)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
