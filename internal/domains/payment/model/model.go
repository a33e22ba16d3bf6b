package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"charter/shared/failure"
	"charter/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldProvider    = "provider"
	FieldStatus      = "status"
	FieldProviderRef = "provider_ref"
	FieldAmountUSD   = "amount_usd"
	FieldAmountTZS   = "amount_tzs"
	FieldCurrency    = "currency"
)

const (
	ProviderManual      = "manual"
	ProviderCybersource = "cybersource"

	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"

	CurrencyUSD = "USD"
)

var (
	ErrGateway  = errors.New("payment gateway error")
	ErrDeclined = errors.New("payment declined")
)

func GatewayError() error { return failure.Wrap(http.StatusBadGateway, ErrGateway) }

func Declined(reason string) error {
	if reason == "" {
		return failure.Wrap(http.StatusPaymentRequired, ErrDeclined)
	}

	return failure.Wrap(http.StatusPaymentRequired, fmt.Errorf("%w: %s", ErrDeclined, reason))
}

type Payment struct {
	ID          string `db:"id"`
	BookingID   string `db:"booking_id"`
	Provider    string `db:"provider"`
	AmountUSD   int    `db:"amount_usd"`
	AmountTZS   int    `db:"amount_tzs"`
	Currency    string `db:"currency"`
	Status      string `db:"status"`
	ProviderRef string `db:"provider_ref"`
	model.Metadata
}

// Settlement is the provider-neutral proof that a booking was paid.
type Settlement struct {
	BookingRef  string
	Provider    string
	ProviderRef string
	AmountUSD   int
	AmountTZS   int
	Currency    string
}

// BookingConfirmed is published once a booking becomes paid.
type BookingConfirmed struct {
	BookingID   string    `json:"booking_id"`
	BookingRef  string    `json:"booking_ref"`
	TimeEntryID string    `json:"time_entry_id"`
	Provider    string    `json:"provider"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
