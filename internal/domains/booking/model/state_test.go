package model_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charter/internal/domains/booking/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{model.StatusPendingPayment, model.StatusConfirmed, true},
		{model.StatusPendingPayment, model.StatusPaymentFailed, true},
		{model.StatusPendingPayment, model.StatusExpired, true},
		{model.StatusPaymentFailed, model.StatusConfirmed, true},
		{model.StatusPaymentFailed, model.StatusPendingPayment, false},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusExpired, false},
		{model.StatusExpired, model.StatusConfirmed, false},
		{model.StatusExpired, model.StatusCancelled, true},
		{model.StatusExpired, model.StatusPendingPayment, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusConfirmed, model.StatusConfirmed, true},
		{"UNKNOWN", "UNKNOWN", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestPaymentAllowed(t *testing.T) {
	assert.True(t, model.PaymentAllowed(model.StatusPendingPayment, model.PaymentUnpaid))
	assert.True(t, model.PaymentAllowed(model.StatusCancelled, model.PaymentRefunded))
	assert.False(t, model.PaymentAllowed(model.StatusConfirmed, model.PaymentPending))
	assert.False(t, model.PaymentAllowed(model.StatusExpired, model.PaymentPaid))
	assert.False(t, model.PaymentAllowed(model.StatusCompleted, model.PaymentRefunded))
}

func TestBooking_Transition(t *testing.T) {
	t.Run("legal pair", func(t *testing.T) {
		b := model.Booking{Status: model.StatusPaymentFailed, PaymentStatus: model.PaymentFailed}

		require.NoError(t, b.Transition(model.StatusConfirmed, model.PaymentPaid))
		assert.Equal(t, model.StatusConfirmed, b.Status)
		assert.Equal(t, model.PaymentPaid, b.PaymentStatus)
	})

	t.Run("illegal status leaves booking untouched", func(t *testing.T) {
		b := model.Booking{Status: model.StatusExpired, PaymentStatus: model.PaymentUnpaid}

		err := b.Transition(model.StatusConfirmed, model.PaymentPaid)

		assert.True(t, errors.Is(err, model.ErrIllegalTransition))
		assert.Equal(t, model.StatusExpired, b.Status)
	})

	t.Run("mismatched payment status", func(t *testing.T) {
		b := model.Booking{Status: model.StatusPendingPayment, PaymentStatus: model.PaymentPending}

		err := b.Transition(model.StatusConfirmed, model.PaymentRefunded)

		assert.True(t, errors.Is(err, model.ErrIllegalTransition))
		assert.Equal(t, model.PaymentPending, b.PaymentStatus)
	})
}

func TestBooking_HoldLapsed(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, model.Booking{Status: model.StatusPendingPayment, HoldExpiresAt: &past}.HoldLapsed(now))
	assert.True(t, model.Booking{Status: model.StatusPaymentFailed, HoldExpiresAt: &past}.HoldLapsed(now))
	assert.False(t, model.Booking{Status: model.StatusPendingPayment, HoldExpiresAt: &future}.HoldLapsed(now))
	assert.False(t, model.Booking{Status: model.StatusConfirmed, HoldExpiresAt: &past}.HoldLapsed(now))
	assert.False(t, model.Booking{Status: model.StatusPendingPayment}.HoldLapsed(now))
	assert.True(t, model.Booking{Status: model.StatusExpired, HoldExpiresAt: &future}.HoldLapsed(now))
	assert.True(t, model.Booking{Status: model.StatusExpired}.HoldLapsed(now))
}

func TestExpirableHolds(t *testing.T) {
	for _, status := range model.ExpirableStatuses {
		for _, payment := range model.ExpirablePayments {
			if !model.PaymentAllowed(status, payment) {
				continue
			}

			t.Run(status+"/"+payment, func(t *testing.T) {
				b := model.Booking{Status: status, PaymentStatus: payment}

				require.NoError(t, b.Transition(model.StatusExpired, model.PaymentUnpaid))
			})
		}
	}

	t.Run("declined hold is reclaimed", func(t *testing.T) {
		assert.Contains(t, model.ExpirableStatuses, model.StatusPaymentFailed)
		assert.Contains(t, model.ExpirablePayments, model.PaymentFailed)
	})
}

func TestBooking_CancelExpired(t *testing.T) {
	b := model.Booking{Status: model.StatusExpired, PaymentStatus: model.PaymentUnpaid}

	require.NoError(t, b.Transition(model.StatusCancelled, model.PaymentUnpaid))
	assert.False(t, b.HoldsSeats())
}

func TestNewReference(t *testing.T) {
	pattern := regexp.MustCompile(`^FSB-[A-Z0-9]{6}$`)
	seen := map[string]struct{}{}

	for range 50 {
		ref, err := model.NewReference("FSB-", 6)
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)

		seen[ref] = struct{}{}
	}

	assert.Greater(t, len(seen), 1)
}
