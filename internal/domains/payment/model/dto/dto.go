package dto

import (
	"strings"

	"charter/internal/domains/payment/model"
	"charter/shared"
	gDto "charter/shared/dto"
)

const (
	EventSucceeded = "succeeded"
	EventPaid      = "paid"
	EventFailed    = "failed"

	currencyTZS = "TZS"
)

type CardSaleRequest struct {
	TransientToken string `json:"transient_token" validate:"required"`
}

type MarkPaidRequest struct {
	PilotEmail string `json:"pilot_email" validate:"omitempty,email"`
}

// RefundRequest refunds AmountUSD, or the whole booking total when it is zero.
type RefundRequest struct {
	AmountUSD int `json:"amount_usd" validate:"min=0"`
}

// WebhookRequest carries the raw body together with the headers covered by the signature.
type WebhookRequest struct {
	Method     string
	Path       string
	Host       string
	Date       string
	Digest     string
	MerchantID string
	Signature  string
	Body       []byte
}

// WebhookEvent is the normalized settlement notice every provider adapter posts.
type WebhookEvent struct {
	BookingRef  string `json:"booking_ref"  validate:"required"`
	Provider    string `json:"provider"     validate:"required,max=40"`
	ProviderRef string `json:"provider_ref" validate:"omitempty,max=120"`
	Status      string `json:"status"       validate:"required"`
	Amount      int    `json:"amount"       validate:"min=0"`
	Currency    string `json:"currency"     validate:"omitempty,len=3"`
	Reason      string `json:"reason"`
}

func (e WebhookEvent) Succeeded() bool {
	status := strings.ToLower(e.Status)

	return status == EventSucceeded || status == EventPaid
}

func (e WebhookEvent) Failed() bool {
	return strings.EqualFold(e.Status, EventFailed)
}

func (e WebhookEvent) Settlement() model.Settlement {
	settlement := model.Settlement{
		BookingRef:  e.BookingRef,
		Provider:    e.Provider,
		ProviderRef: e.ProviderRef,
		Currency:    strings.ToUpper(e.Currency),
	}

	if settlement.Currency == currencyTZS {
		settlement.AmountTZS = e.Amount
	} else {
		settlement.AmountUSD = e.Amount
	}

	return settlement
}

type ConfirmResponse struct {
	BookingRef    string `json:"booking_ref"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AlreadyPaid   bool   `json:"already_paid"`
}

type PaymentResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	Provider    string `json:"provider"`
	AmountUSD   int    `json:"amount_usd"`
	AmountTZS   int    `json:"amount_tzs"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(m model.Payment) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.Provider = m.Provider
	r.AmountUSD = m.AmountUSD
	r.AmountTZS = m.AmountTZS
	r.Currency = m.Currency
	r.Status = m.Status
	r.ProviderRef = m.ProviderRef
	r.Metadata.FromModel(m.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, total, limit int) {
	r.TotalData = total
	r.TotalPage = shared.CalculateTotalPage(total, limit)
	r.Payments = make([]PaymentResponse, len(models))

	for i, m := range models {
		r.Payments[i].FromModel(m)
	}
}
