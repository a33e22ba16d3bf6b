package model

import (
	"time"

	"charter/shared/model"
)

const (
	CancellationTableName  = "cancellations"
	CancellationEntityName = "cancellation"

	CancellationRequested = "requested"
	CancellationApproved  = "approved"
	CancellationRejected  = "rejected"
)

type Cancellation struct {
	ID                string     `db:"id"`
	BookingID         string     `db:"booking_id"`
	BookingRef        string     `db:"booking_ref"`
	RequestedByUserID string     `db:"requested_by_user_id"`
	Reason            string     `db:"reason"`
	Status            string     `db:"status"`
	RefundAmountUSD   int        `db:"refund_amount_usd"`
	DecidedByUserID   string     `db:"decided_by_user_id"`
	DecidedAt         *time.Time `db:"decided_at"`
	model.Metadata
}
