package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/gateway"
	gatewayMocks "charter/infras/gateway/mocks"
	"charter/infras/kafka"
	kafkaMocks "charter/infras/kafka/mocks"
	"charter/infras/otel/mocks"
	auditMocks "charter/internal/domains/audit/service/mocks"
	bookingMocks "charter/internal/domains/booking/mocks"
	bookingModel "charter/internal/domains/booking/model"
	paymentMocks "charter/internal/domains/payment/mocks"
	"charter/internal/domains/payment/model"
	"charter/internal/domains/payment/model/dto"
	"charter/internal/domains/payment/service"
	pilotDto "charter/internal/domains/pilot/model/dto"
	pilotMocks "charter/internal/domains/pilot/service/mocks"
	timeEntryMocks "charter/internal/domains/timeentry/mocks"
	cacheMocks "charter/shared/cache/mocks"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	repoMocks "charter/shared/repository/mocks"
	"charter/shared/signature"
	"charter/shared/timezone"
)

const (
	webhookSecret = "whsec-test"
	bookingRef    = "FSB-K7Q2ZP"
)

type fixture struct {
	repo      *paymentMocks.MockPayment
	bookings  *bookingMocks.MockBooking
	timeEntry *timeEntryMocks.MockTimeEntry
	gateway   *gatewayMocks.MockGateway
	kafka     *kafkaMocks.MockClient
	pilot     *pilotMocks.MockPilot
	svc       service.Payment
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingConfirmed = "booking.confirmed"
	cfg.External.Payment.WebhookSecret = webhookSecret

	tx := repoMocks.NewMockTransactor(ctrl)
	tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		}).AnyTimes()

	audit := auditMocks.NewMockAudit(ctrl)
	audit.EXPECT().Log(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		repo:      paymentMocks.NewMockPayment(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
		timeEntry: timeEntryMocks.NewMockTimeEntry(ctrl),
		gateway:   gatewayMocks.NewMockGateway(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
		pilot:     pilotMocks.NewMockPilot(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, f.timeEntry, tx, f.gateway, f.kafka, f.pilot, audit, cfg, cache, mocks.NewOtel())

	return f
}

func pending(holdIn time.Duration) bookingModel.Booking {
	hold := timezone.Now().Add(holdIn)

	return bookingModel.Booking{
		ID:            "b-1",
		Ref:           bookingRef,
		TimeEntryID:   "te-1",
		Pax:           2,
		TotalUSD:      596,
		TotalTZS:      1460200,
		Currency:      "USD",
		Status:        bookingModel.StatusPendingPayment,
		PaymentStatus: bookingModel.PaymentPending,
		HoldExpiresAt: &hold,
	}
}

func expired() bookingModel.Booking {
	b := pending(-time.Hour)
	b.Status = bookingModel.StatusExpired
	b.PaymentStatus = bookingModel.PaymentUnpaid

	return b
}

func confirmed() bookingModel.Booking {
	b := pending(10 * time.Minute)
	b.Status = bookingModel.StatusConfirmed
	b.PaymentStatus = bookingModel.PaymentPaid

	return b
}

// expectStatus asserts the booking status update written inside the transaction.
func expectStatus(t *testing.T, f fixture, status, paymentStatus string) {
	f.bookings.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, status, req[bookingModel.FieldStatus])
			assert.Equal(t, paymentStatus, req[bookingModel.FieldPaymentStatus])

			return nil
		})
}

// expectPublish returns a channel closed once the confirmation event was sent.
func expectPublish(t *testing.T, f fixture) <-chan struct{} {
	done := make(chan struct{})

	f.kafka.EXPECT().SendMessages(gomock.Any(), "booking.confirmed", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			defer close(done)

			event, ok := messages[0].Value.(model.BookingConfirmed)
			assert.True(t, ok)
			assert.Equal(t, bookingRef, event.BookingRef)
			assert.Equal(t, bookingRef, messages[0].Key)

			return nil
		})

	return done
}

func waitFor(t *testing.T, done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("confirmation event was not published")
	}
}

func TestPaymentService_ConfirmPaid(t *testing.T) {
	settlement := model.Settlement{
		BookingRef: bookingRef, Provider: "stripe", ProviderRef: "pi_123", AmountUSD: 596, Currency: "USD",
	}

	lapsed := pending(-time.Minute)

	failed := pending(10 * time.Minute)
	failed.Status = bookingModel.StatusPaymentFailed
	failed.PaymentStatus = bookingModel.PaymentFailed

	tests := []struct {
		name        string
		booking     bookingModel.Booking
		setupMock   func(t *testing.T, f fixture) <-chan struct{}
		wantAlready bool
		wantCode    int
		wantErr     error
	}{
		{
			name:    "pending booking becomes confirmed",
			booking: pending(10 * time.Minute),
			setupMock: func(t *testing.T, f fixture) <-chan struct{} {
				expectStatus(t, f, bookingModel.StatusConfirmed, bookingModel.PaymentPaid)
				f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
						assert.Equal(t, model.StatusPaid, p.Status)
						assert.Equal(t, "pi_123", p.ProviderRef)
						assert.Equal(t, 596, p.AmountUSD)

						return nil
					})

				return expectPublish(t, f)
			},
		},
		{
			name:    "failed attempt is retried on the same payment row",
			booking: failed,
			setupMock: func(t *testing.T, f fixture) <-chan struct{} {
				expectStatus(t, f, bookingModel.StatusConfirmed, bookingModel.PaymentPaid)
				f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{ID: "p-1"}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusPaid, req[model.FieldStatus])

						return nil
					})

				return expectPublish(t, f)
			},
		},
		{
			name:        "second confirmation is a no-op",
			booking:     confirmed(),
			wantAlready: true,
		},
		{
			name:     "lapsed hold is rejected",
			booking:  lapsed,
			wantCode: http.StatusGone,
			wantErr:  bookingModel.ErrHoldExpired,
		},
		{
			name:     "swept booking asks for a restart",
			booking:  expired(),
			wantCode: http.StatusGone,
			wantErr:  bookingModel.ErrHoldExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.booking, nil)

			var published <-chan struct{}
			if tt.setupMock != nil {
				published = tt.setupMock(t, f)
			}

			res, err := f.svc.ConfirmPaid(context.Background(), settlement)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.True(t, errors.Is(err, tt.wantErr))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, bookingModel.StatusConfirmed, res.Status)
			assert.Equal(t, bookingModel.PaymentPaid, res.PaymentStatus)
			assert.Equal(t, tt.wantAlready, res.AlreadyPaid)

			if published != nil {
				waitFor(t, published)
			}
		})
	}
}

func TestPaymentService_ConfirmPaid_UnknownBooking(t *testing.T) {
	f := newFixture(t)
	f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

	_, err := f.svc.ConfirmPaid(context.Background(), model.Settlement{BookingRef: "FSB-NOPE00"})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestPaymentService_CardSale(t *testing.T) {
	req := dto.CardSaleRequest{TransientToken: "tt-1"}

	tests := []struct {
		name      string
		booking   bookingModel.Booking
		setupMock func(t *testing.T, f fixture) <-chan struct{}
		wantCode  int
		wantErr   error
		wantState string
	}{
		{
			name:    "approved sale confirms the booking",
			booking: pending(10 * time.Minute),
			setupMock: func(t *testing.T, f fixture) <-chan struct{} {
				f.gateway.EXPECT().Sale(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, sale gateway.SaleRequest) (gateway.Result, error) {
						assert.Equal(t, "596.00", sale.Amount)
						assert.Equal(t, bookingRef, sale.ClientRef)
						assert.Equal(t, "tt-1", sale.TransientToken)

						return gateway.Result{ID: "g-1", Status: "AUTHORIZED", Approved: true}, nil
					})
				f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending(10*time.Minute), nil)
				expectStatus(t, f, bookingModel.StatusConfirmed, bookingModel.PaymentPaid)
				f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
						assert.Equal(t, model.ProviderCybersource, p.Provider)
						assert.Equal(t, "g-1", p.ProviderRef)

						return nil
					})

				return expectPublish(t, f)
			},
			wantState: bookingModel.StatusConfirmed,
		},
		{
			name:    "declined sale marks the attempt failed",
			booking: pending(10 * time.Minute),
			setupMock: func(t *testing.T, f fixture) <-chan struct{} {
				f.gateway.EXPECT().Sale(gomock.Any(), gomock.Any()).
					Return(gateway.Result{ID: "g-2", Status: "DECLINED", Reason: "INSUFFICIENT_FUND"}, nil)
				f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending(10*time.Minute), nil)
				expectStatus(t, f, bookingModel.StatusPaymentFailed, bookingModel.PaymentFailed)
				f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
						assert.Equal(t, model.StatusFailed, p.Status)

						return nil
					})

				return nil
			},
			wantCode:  http.StatusPaymentRequired,
			wantErr:   model.ErrDeclined,
			wantState: bookingModel.StatusPaymentFailed,
		},
		{
			name:    "unreachable gateway changes nothing",
			booking: pending(10 * time.Minute),
			setupMock: func(t *testing.T, f fixture) <-chan struct{} {
				f.gateway.EXPECT().Sale(gomock.Any(), gomock.Any()).Return(gateway.Result{}, gateway.ErrUnavailable)

				return nil
			},
			wantCode: http.StatusBadGateway,
			wantErr:  model.ErrGateway,
		},
		{
			name:     "lapsed hold never reaches the gateway",
			booking:  pending(-time.Minute),
			wantCode: http.StatusGone,
			wantErr:  bookingModel.ErrHoldExpired,
		},
		{
			name:     "swept booking never reaches the gateway",
			booking:  expired(),
			wantCode: http.StatusGone,
			wantErr:  bookingModel.ErrHoldExpired,
		},
		{
			name:      "paid booking is reported as such",
			booking:   confirmed(),
			wantState: bookingModel.StatusConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)

			var published <-chan struct{}
			if tt.setupMock != nil {
				published = tt.setupMock(t, f)
			}

			res, err := f.svc.CardSale(context.Background(), bookingRef, req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantState, res.Status)

			if published != nil {
				waitFor(t, published)
			}
		})
	}
}

func signedWebhook(body, secret string) dto.WebhookRequest {
	in := signature.SigningInput{
		Method:     http.MethodPost,
		Path:       "/api/v1/payments/webhook",
		Host:       "api.flyzanzibar.com",
		Date:       "Mon, 02 Mar 2026 09:00:00 GMT",
		Digest:     signature.Digest([]byte(body)),
		MerchantID: "flyzanzibar",
	}

	return dto.WebhookRequest{
		Method:     in.Method,
		Path:       in.Path,
		Host:       in.Host,
		Date:       in.Date,
		Digest:     in.Digest,
		MerchantID: in.MerchantID,
		Signature:  signature.NewHeader("key-1", signature.Sign([]byte(secret), in)).String(),
		Body:       []byte(body),
	}
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	succeeded := `{"booking_ref":"FSB-K7Q2ZP","provider":"stripe","provider_ref":"pi_123","status":"succeeded","amount":596,"currency":"USD"}`
	failedBody := `{"booking_ref":"FSB-K7Q2ZP","provider":"stripe","provider_ref":"pi_124","status":"failed","reason":"card_declined"}`

	tests := []struct {
		name      string
		req       dto.WebhookRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name:     "wrong secret is rejected",
			req:      signedWebhook(succeeded, "someone-else"),
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "tampered body is rejected",
			req: func() dto.WebhookRequest {
				req := signedWebhook(succeeded, webhookSecret)
				req.Body = []byte(failedBody)

				return req
			}(),
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "replayed success is idempotent",
			req:  signedWebhook(succeeded, webhookSecret),
			setupMock: func(_ *testing.T, f fixture) {
				f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed(), nil)
			},
		},
		{
			name: "failure notice marks the booking failed",
			req:  signedWebhook(failedBody, webhookSecret),
			setupMock: func(t *testing.T, f fixture) {
				f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending(10*time.Minute), nil)
				expectStatus(t, f, bookingModel.StatusPaymentFailed, bookingModel.PaymentFailed)
				f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown status is acknowledged",
			req:  signedWebhook(`{"booking_ref":"FSB-K7Q2ZP","provider":"stripe","status":"processing"}`, webhookSecret),
		},
		{
			name:     "invalid event is a bad request",
			req:      signedWebhook(`{"provider":"stripe","status":"succeeded"}`, webhookSecret),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			err := f.svc.HandleWebhook(context.Background(), tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPaymentService_MarkFailed(t *testing.T) {
	cancelled := pending(10 * time.Minute)
	cancelled.Status = bookingModel.StatusCancelled

	tests := []struct {
		name      string
		booking   bookingModel.Booking
		setupMock func(t *testing.T, f fixture)
	}{
		{
			name:    "pending hold keeps its seats as a failed attempt",
			booking: pending(10 * time.Minute),
			setupMock: func(t *testing.T, f fixture) {
				expectStatus(t, f, bookingModel.StatusPaymentFailed, bookingModel.PaymentFailed)
				f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{name: "swept booking is acknowledged", booking: expired()},
		{name: "cancelled booking is acknowledged", booking: cancelled},
		{name: "paid booking is acknowledged", booking: confirmed()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			err := f.svc.MarkFailed(context.Background(), bookingRef, "stripe", "pi_9", "card_declined")

			assert.NoError(t, err)
		})
	}
}

func TestPaymentService_MarkPaid(t *testing.T) {
	t.Run("assigns the pilot before confirming", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending(10*time.Minute), nil)

		gomock.InOrder(
			f.pilot.EXPECT().Assign(gomock.Any(), pilotDto.AssignPilotRequest{TimeEntryID: "te-1", PilotEmail: "pilot@flyzanzibar.com"}).
				Return(pilotDto.AssignmentResponse{ID: "a-1"}, nil),
			f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending(10*time.Minute), nil),
		)

		expectStatus(t, f, bookingModel.StatusConfirmed, bookingModel.PaymentPaid)
		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
				assert.Equal(t, model.ProviderManual, p.Provider)

				return nil
			})
		published := expectPublish(t, f)

		res, err := f.svc.MarkPaid(context.Background(), bookingRef, dto.MarkPaidRequest{PilotEmail: "pilot@flyzanzibar.com"})
		assert.NoError(t, err)
		assert.Equal(t, bookingModel.StatusConfirmed, res.Status)

		waitFor(t, published)
	})

	t.Run("pilot assignment failure stops the confirmation", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending(10*time.Minute), nil)
		f.pilot.EXPECT().Assign(gomock.Any(), gomock.Any()).
			Return(pilotDto.AssignmentResponse{}, failure.BadRequestFromString("not a pilot"))

		_, err := f.svc.MarkPaid(context.Background(), bookingRef, dto.MarkPaidRequest{PilotEmail: "ops@flyzanzibar.com"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestPaymentService_Refund(t *testing.T) {
	cardPayment := model.Payment{ID: "p-1", Provider: model.ProviderCybersource, ProviderRef: "g-1", Status: model.StatusPaid}

	tests := []struct {
		name      string
		booking   bookingModel.Booking
		req       dto.RefundRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name:    "card refund cancels and releases seats",
			booking: confirmed(),
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cardPayment, nil)
				f.gateway.EXPECT().Refund(gomock.Any(), "g-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, req gateway.RefundRequest) (gateway.Result, error) {
						assert.Equal(t, "596.00", req.Amount)

						return gateway.Result{ID: "r-1", Status: "PENDING", Approved: true}, nil
					})
				f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed(), nil)
				f.timeEntry.EXPECT().ReleaseSeats(gomock.Any(), gomock.Any(), "te-1", 2).Return(nil)
				expectStatus(t, f, bookingModel.StatusCancelled, bookingModel.PaymentRefunded)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusRefunded, req[model.FieldStatus])

						return nil
					})
			},
		},
		{
			name:    "manual payment skips the gateway",
			booking: confirmed(),
			req:     dto.RefundRequest{AmountUSD: 100},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Payment{ID: "p-2", Provider: model.ProviderManual, Status: model.StatusPaid}, nil)
				f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed(), nil)
				f.timeEntry.EXPECT().ReleaseSeats(gomock.Any(), gomock.Any(), "te-1", 2).Return(nil)
				expectStatus(t, f, bookingModel.StatusCancelled, bookingModel.PaymentRefunded)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "gateway failure leaves the booking paid",
			booking: confirmed(),
			setupMock: func(_ *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cardPayment, nil)
				f.gateway.EXPECT().Refund(gomock.Any(), gomock.Any(), gomock.Any()).Return(gateway.Result{}, gateway.ErrUnavailable)
			},
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "unpaid booking cannot be refunded",
			booking:  pending(10 * time.Minute),
			wantCode: http.StatusConflict,
		},
		{
			name: "completed flight is refused before the gateway",
			booking: func() bookingModel.Booking {
				b := confirmed()
				b.Status = bookingModel.StatusCompleted

				return b
			}(),
			wantCode: http.StatusConflict,
		},
		{
			name:     "refund above the total",
			booking:  confirmed(),
			req:      dto.RefundRequest{AmountUSD: 597},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			err := f.svc.Refund(context.Background(), bookingRef, tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
