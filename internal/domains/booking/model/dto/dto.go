package dto

import (
	"time"

	"charter/internal/domains/booking/model"
	"charter/shared"
	gDto "charter/shared/dto"
	gModel "charter/shared/model"

	"github.com/google/uuid"
)

type PassengerRequest struct {
	First       string `json:"first"       validate:"required,max=100"`
	Last        string `json:"last"        validate:"omitempty,max=100"`
	Phone       string `json:"phone"       validate:"omitempty,max=40"`
	Gender      string `json:"gender"      validate:"omitempty,max=20"`
	DOB         string `json:"dob"         validate:"omitempty,max=20"`
	Nationality string `json:"nationality" validate:"omitempty,max=80"`
	IDType      string `json:"id_type"     validate:"omitempty,max=50"`
	IDNumber    string `json:"id_number"   validate:"omitempty,max=80"`
}

func (p *PassengerRequest) ToModel(bookingID string, meta gModel.Metadata) model.Passenger {
	return model.Passenger{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		FirstName:   p.First,
		LastName:    p.Last,
		Phone:       p.Phone,
		Gender:      p.Gender,
		DOB:         p.DOB,
		Nationality: p.Nationality,
		IDType:      p.IDType,
		IDNumber:    p.IDNumber,
		Metadata:    meta,
	}
}

// CreateBookingRequest books pax seats on one departure. Anonymous callers identify
// themselves with BookerEmail; authenticated callers book as themselves.
type CreateBookingRequest struct {
	TimeEntryID string             `json:"time_entry_id" validate:"required,uuid"`
	Pax         int                `json:"pax"           validate:"required,min=1,max=50"`
	Passengers  []PassengerRequest `json:"passengers"    validate:"omitempty,dive"`
	BookerEmail string             `json:"booker_email"  validate:"omitempty,email"`
	BookerName  string             `json:"booker_name"   validate:"omitempty,max=150"`
}

// PassengersFor returns the passengers to store. Extra entries beyond pax are dropped.
func (c *CreateBookingRequest) PassengersFor(bookingID string, meta gModel.Metadata) []model.Passenger {
	count := min(len(c.Passengers), c.Pax)
	out := make([]model.Passenger, count)

	for i := range count {
		out[i] = c.Passengers[i].ToModel(bookingID, meta)
	}

	return out
}

type MoveBookingRequest struct {
	// Target is a time entry id or "YYYY-MM-DD HH:MM" on the booking's route.
	Target string `json:"target" validate:"required,max=64"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	RefundAmountUSD int    `json:"refund_amount_usd" validate:"min=0"`
	Note            string `json:"note"              validate:"omitempty,max=500"`
}

type RequestCancellationRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type PassengerResponse struct {
	First       string `json:"first"`
	Last        string `json:"last"`
	Phone       string `json:"phone,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

func (p *PassengerResponse) FromModel(model model.Passenger) {
	p.First = model.FirstName
	p.Last = model.LastName
	p.Phone = model.Phone
	p.Nationality = model.Nationality
}

type BookingResponse struct {
	ID               string              `json:"id"`
	Ref              string              `json:"booking_ref"`
	TimeEntryID      string              `json:"time_entry_id"`
	UserID           string              `json:"user_id"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"payment_status"`
	Pax              int                 `json:"pax"`
	Currency         string              `json:"currency"`
	ExchangeRateUsed *int                `json:"exchange_rate_used,omitempty"`
	UnitPriceUSD     int                 `json:"unit_price_usd"`
	UnitPriceTZS     int                 `json:"unit_price_tzs"`
	TotalUSD         int                 `json:"total_usd"`
	TotalTZS         int                 `json:"total_tzs"`
	HoldExpiresAt    *time.Time          `json:"hold_expires_at,omitempty"`
	TicketStatus     string              `json:"ticket_status"`
	TicketObjectKey  *string             `json:"ticket_object_key,omitempty"`
	Passengers       []PassengerResponse `json:"passengers,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Ref = model.Ref
	r.TimeEntryID = model.TimeEntryID
	r.UserID = model.UserID
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.Pax = model.Pax
	r.Currency = model.Currency
	r.ExchangeRateUsed = model.ExchangeRateUsed
	r.UnitPriceUSD = model.UnitPriceUSD
	r.UnitPriceTZS = model.UnitPriceTZS
	r.TotalUSD = model.TotalUSD
	r.TotalTZS = model.TotalTZS
	r.HoldExpiresAt = model.HoldExpiresAt
	r.TicketStatus = model.TicketStatus
	r.TicketObjectKey = model.TicketObjectKey
	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) WithPassengers(passengers []model.Passenger) {
	r.Passengers = make([]PassengerResponse, len(passengers))
	for i, p := range passengers {
		r.Passengers[i].FromModel(p)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type CancellationResponse struct {
	ID              string     `json:"id"`
	BookingRef      string     `json:"booking_ref"`
	Status          string     `json:"status"`
	Reason          string     `json:"reason"`
	RefundAmountUSD int        `json:"refund_amount_usd"`
	RequestedBy     string     `json:"requested_by_user_id"`
	DecidedBy       string     `json:"decided_by_user_id,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	gDto.Metadata
}

func (r *CancellationResponse) FromModel(model model.Cancellation) {
	r.ID = model.ID
	r.BookingRef = model.BookingRef
	r.Status = model.Status
	r.Reason = model.Reason
	r.RefundAmountUSD = model.RefundAmountUSD
	r.RequestedBy = model.RequestedByUserID
	r.DecidedBy = model.DecidedByUserID
	r.DecidedAt = model.DecidedAt
	r.Metadata.FromModel(model.Metadata)
}

type GetCancellationsResponse struct {
	Cancellations []CancellationResponse `json:"cancellations"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetCancellationsResponse) FromModels(models []model.Cancellation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Cancellations = make([]CancellationResponse, len(models))
	for i, mod := range models {
		r.Cancellations[i].FromModel(mod)
	}
}
