package model

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"charter/shared/failure"
	"charter/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRef             = "booking_ref"
	FieldTimeEntryID     = "time_entry_id"
	FieldUserID          = "user_id"
	FieldStatus          = "status"
	FieldPaymentStatus   = "payment_status"
	FieldHoldExpiresAt   = "hold_expires_at"
	FieldTicketStatus    = "ticket_status"
	FieldTicketStorage   = "ticket_storage"
	FieldTicketObjectKey = "ticket_object_key"
	FieldPilotNotifiedAt = "pilot_notified_at"
	FieldCreatedAt       = "created_at"
)

const (
	TicketNone      = "none"
	TicketGenerated = "generated"
	TicketFailed    = "failed"

	TicketStorageS3 = "s3"
)

var (
	ErrNotFound           = errors.New("booking not found")
	ErrReferenceExhausted = errors.New("could not allocate a unique booking reference")
	ErrHoldExpired        = errors.New("booking hold has expired")
	ErrIllegalTransition  = errors.New("illegal booking status transition")
)

func NotFound() error { return failure.Wrap(http.StatusNotFound, ErrNotFound) }

func ReferenceExhausted() error {
	return failure.Wrap(http.StatusInternalServerError, ErrReferenceExhausted)
}

func HoldExpired() error { return failure.Wrap(http.StatusGone, ErrHoldExpired) }

// Booking is never deleted. Status and PaymentStatus always form an allowed pair.
type Booking struct {
	ID               string     `db:"id"`
	Ref              string     `db:"booking_ref"`
	TimeEntryID      string     `db:"time_entry_id"`
	UserID           string     `db:"user_id"`
	CreatedByRole    string     `db:"created_by_role"`
	Currency         string     `db:"currency"`
	ExchangeRateUsed *int       `db:"exchange_rate_used"`
	Pax              int        `db:"pax"`
	UnitPriceUSD     int        `db:"unit_price_usd"`
	UnitPriceTZS     int        `db:"unit_price_tzs"`
	TotalUSD         int        `db:"total_usd"`
	TotalTZS         int        `db:"total_tzs"`
	Status           string     `db:"status"`
	PaymentStatus    string     `db:"payment_status"`
	HoldExpiresAt    *time.Time `db:"hold_expires_at"`
	TicketStorage    string     `db:"ticket_storage"`
	TicketObjectKey  *string    `db:"ticket_object_key"`
	TicketStatus     string     `db:"ticket_status"`
	PilotNotifiedAt  *time.Time `db:"pilot_notified_at"`
	model.Metadata
}

// HoldLapsed reports whether the hold is gone at now: already swept, or unpaid past its expiry.
func (b Booking) HoldLapsed(now time.Time) bool {
	if b.Status == StatusExpired {
		return true
	}

	if !slices.Contains(ExpirableStatuses, b.Status) {
		return false
	}

	return b.HoldExpiresAt != nil && b.HoldExpiresAt.Before(now)
}

// HoldsSeats reports whether the booking still owns its seats.
func (b Booking) HoldsSeats() bool {
	return b.Status != StatusExpired && b.Status != StatusCancelled
}

// Expired is one row released by the hold sweeper.
type Expired struct {
	ID          string `db:"id"`
	Ref         string `db:"booking_ref"`
	TimeEntryID string `db:"time_entry_id"`
	Pax         int    `db:"pax"`
}
