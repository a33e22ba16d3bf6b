package model

import (
	"fmt"
	"slices"
)

const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusPaymentFailed  = "PAYMENT_FAILED"
	StatusConfirmed      = "CONFIRMED"
	StatusExpired        = "EXPIRED"
	StatusCancelled      = "CANCELLED"
	StatusCompleted      = "COMPLETED"

	PaymentPending  = "pending"
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

var transitions = map[string][]string{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled, StatusExpired, StatusPaymentFailed},
	StatusPaymentFailed:  {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusConfirmed:      {StatusCancelled, StatusCompleted},
	StatusExpired:        {StatusCancelled},
}

// The sweeper expires lapsed holds in any of these statuses, including declined ones.
var (
	ExpirableStatuses = []string{StatusPendingPayment, StatusPaymentFailed}
	ExpirablePayments = []string{PaymentPending, PaymentUnpaid, PaymentFailed}
)

var pairs = map[string][]string{
	StatusPendingPayment: {PaymentPending, PaymentUnpaid},
	StatusPaymentFailed:  {PaymentFailed},
	StatusConfirmed:      {PaymentPaid},
	StatusExpired:        {PaymentUnpaid},
	StatusCancelled:      {PaymentUnpaid, PaymentPending, PaymentFailed, PaymentPaid, PaymentRefunded},
	StatusCompleted:      {PaymentPaid},
}

// CanTransition reports whether from may move to to. Staying in place is allowed.
func CanTransition(from, to string) bool {
	if from == to {
		_, known := pairs[from]

		return known
	}

	return slices.Contains(transitions[from], to)
}

// PaymentAllowed reports whether the payment status may accompany the booking status.
func PaymentAllowed(status, paymentStatus string) bool {
	return slices.Contains(pairs[status], paymentStatus)
}

// Transition moves b to the new pair, or returns ErrIllegalTransition leaving b untouched.
func (b *Booking) Transition(status, paymentStatus string) error {
	if !CanTransition(b.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, b.Status, status)
	}

	if !PaymentAllowed(status, paymentStatus) {
		return fmt.Errorf("%w: %s cannot be %s", ErrIllegalTransition, status, paymentStatus)
	}

	b.Status = status
	b.PaymentStatus = paymentStatus

	return nil
}
