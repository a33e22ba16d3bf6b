package model

import (
	"errors"
	"net/http"

	"charter/shared/failure"
	"charter/shared/model"
)

const (
	TableName  = "time_entries"
	EntityName = "time_entry"

	FieldID               = "id"
	FieldRouteID          = "route_id"
	FieldDate             = "flight_date"
	FieldStart            = "start_time"
	FieldEnd              = "end_time"
	FieldPriceUSD         = "price_usd"
	FieldPriceTZS         = "price_tzs"
	FieldOverridePriceUSD = "override_price_usd"
	FieldOverridePriceTZS = "override_price_tzs"
	FieldCapacity         = "capacity"
	FieldSeatsAvailable   = "seats_available"
	FieldVisibility       = "visibility"
	FieldStatus           = "status"
)

const (
	VisibilityPublic = "PUBLIC"
	VisibilityHidden = "HIDDEN"

	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusClosed    = "CLOSED"

	CurrencyUSD = "USD"
	CurrencyTZS = "TZS"

	DefaultFlightNo = "FSB"
	DefaultCabin    = "Economy"
)

var (
	ErrInsufficientSeats = errors.New("not enough seats")
	ErrNotFound          = errors.New("time entry not found")
)

// InsufficientSeats and NotFound carry the HTTP code while keeping the sentinel reachable.
func InsufficientSeats() error { return failure.Wrap(http.StatusConflict, ErrInsufficientSeats) }

func NotFound() error { return failure.Wrap(http.StatusNotFound, ErrNotFound) }

// TimeEntry is one concrete flight departure with its own seat inventory.
type TimeEntry struct {
	ID               string `db:"id"`
	RouteID          string `db:"route_id"`
	Date             string `db:"flight_date"`
	Start            string `db:"start_time"`
	End              string `db:"end_time"`
	PriceUSD         int    `db:"price_usd"`
	PriceTZS         *int   `db:"price_tzs"`
	BasePriceUSD     *int   `db:"base_price_usd"`
	BasePriceTZS     *int   `db:"base_price_tzs"`
	OverridePriceUSD *int   `db:"override_price_usd"`
	OverridePriceTZS *int   `db:"override_price_tzs"`
	Currency         string `db:"currency"`
	ExchangeRate     *int   `db:"exchange_rate"`
	Capacity         int    `db:"capacity"`
	SeatsAvailable   int    `db:"seats_available"`
	FlightNo         string `db:"flight_no"`
	Cabin            string `db:"cabin"`
	Visibility       string `db:"visibility"`
	Status           string `db:"status"`
	model.Metadata
}

// Booked is the number of seats currently held or sold.
func (t TimeEntry) Booked() int {
	return t.Capacity - t.SeatsAvailable
}
