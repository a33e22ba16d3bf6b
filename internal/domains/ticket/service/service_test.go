package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/otel/mocks"
	s3Mocks "charter/infras/s3/mocks"
	bookingMocks "charter/internal/domains/booking/mocks"
	bookingModel "charter/internal/domains/booking/model"
	routeMocks "charter/internal/domains/route/mocks"
	routeModel "charter/internal/domains/route/model"
	"charter/internal/domains/ticket/service"
	timeEntryMocks "charter/internal/domains/timeentry/mocks"
	timeEntryModel "charter/internal/domains/timeentry/model"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
)

type fixture struct {
	bookings   *bookingMocks.MockBooking
	passengers *bookingMocks.MockPassenger
	timeEntry  *timeEntryMocks.MockTimeEntry
	routes     *routeMocks.MockRoute
	s3         *s3Mocks.MockS3
	svc        service.Ticket
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Name = "FlySunbird"

	f := fixture{
		bookings:   bookingMocks.NewMockBooking(ctrl),
		passengers: bookingMocks.NewMockPassenger(ctrl),
		timeEntry:  timeEntryMocks.NewMockTimeEntry(ctrl),
		routes:     routeMocks.NewMockRoute(ctrl),
		s3:         s3Mocks.NewMockS3(ctrl),
	}

	f.svc = service.New(f.bookings, f.passengers, f.timeEntry, f.routes, f.s3, cfg, mocks.NewOtel())

	return f
}

func paidBooking(ref string) bookingModel.Booking {
	return bookingModel.Booking{
		ID:            "b-" + ref,
		Ref:           ref,
		TimeEntryID:   "te-1",
		UserID:        "user-1",
		Pax:           1,
		Status:        bookingModel.StatusConfirmed,
		PaymentStatus: bookingModel.PaymentPaid,
		TicketStatus:  bookingModel.TicketNone,
	}
}

func (f fixture) expectTicketData() {
	f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(timeEntryModel.TimeEntry{ID: "te-1", RouteID: "route-1", Date: "2026-03-02", Start: "09:30", End: "10:10", FlightNo: "FSB0302"}, nil)
	f.routes.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(routeModel.Route{ID: "route-1", FromLabel: "Dar es Salaam Airport", ToLabel: "Zanzibar Airport"}, nil)
	f.passengers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]bookingModel.Passenger{{FirstName: "Amina", LastName: "Said"}}, nil)
}

func (f fixture) expectTicketStatus(t *testing.T, status string) {
	f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, status, req[bookingModel.FieldTicketStatus])

			return nil
		})
}

func TestTicketService_Generate(t *testing.T) {
	stored := paidBooking("FSB-STORED")
	stored.TicketStatus = bookingModel.TicketGenerated
	stored.TicketObjectKey = shared.Ptr("tickets/FSB-STORED.pdf")

	unpaid := paidBooking("FSB-UNPAID")
	unpaid.Status = bookingModel.StatusPendingPayment
	unpaid.PaymentStatus = bookingModel.PaymentPending

	tests := []struct {
		name      string
		booking   bookingModel.Booking
		setupMock func(t *testing.T, f fixture)
		wantKey   string
		wantCode  int
		wantErr   bool
	}{
		{
			name:    "renders and stores the ticket",
			booking: paidBooking("FSB-K7Q2ZP"),
			setupMock: func(t *testing.T, f fixture) {
				f.expectTicketData()
				f.s3.EXPECT().Put(gomock.Any(), "tickets/FSB-K7Q2ZP.pdf", constant.ContentTypePDF, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, data []byte) (string, error) {
						assert.Contains(t, string(data), "(Booking Reference: FSB-K7Q2ZP)")
						assert.Contains(t, string(data), "(Amina Said)")

						return "https://cdn.example.com/tickets/FSB-K7Q2ZP.pdf", nil
					})
				f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.TicketGenerated, req[bookingModel.FieldTicketStatus])
						assert.Equal(t, bookingModel.TicketStorageS3, req[bookingModel.FieldTicketStorage])
						assert.Equal(t, "tickets/FSB-K7Q2ZP.pdf", req[bookingModel.FieldTicketObjectKey])

						return nil
					})
			},
			wantKey: "tickets/FSB-K7Q2ZP.pdf",
		},
		{
			name:    "stored ticket is not rendered again",
			booking: stored,
			wantKey: "tickets/FSB-STORED.pdf",
		},
		{
			name:     "unpaid booking has no ticket",
			booking:  unpaid,
			wantCode: http.StatusConflict,
		},
		{
			name:    "upload failure is recorded for retry",
			booking: paidBooking("FSB-K7Q2ZP"),
			setupMock: func(t *testing.T, f fixture) {
				f.expectTicketData()
				f.s3.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket unavailable"))
				f.expectTicketStatus(t, bookingModel.TicketFailed)
			},
			wantErr: true,
		},
		{
			name:    "object is removed when the booking cannot be updated",
			booking: paidBooking("FSB-K7Q2ZP"),
			setupMock: func(t *testing.T, f fixture) {
				f.expectTicketData()
				f.s3.EXPECT().Put(gomock.Any(), "tickets/FSB-K7Q2ZP.pdf", gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/tickets/FSB-K7Q2ZP.pdf", nil)
				f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
				f.s3.EXPECT().Delete(gomock.Any(), "tickets/FSB-K7Q2ZP.pdf").Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			res, err := f.svc.Generate(context.Background(), tt.booking.Ref)

			switch {
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			case tt.wantErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.Equal(t, bookingModel.TicketGenerated, res.Status)
				assert.Equal(t, tt.wantKey, res.ObjectKey)
			}
		})
	}
}

func TestTicketService_Download(t *testing.T) {
	stored := paidBooking("FSB-K7Q2ZP")
	stored.TicketStatus = bookingModel.TicketGenerated
	stored.TicketObjectKey = shared.Ptr("tickets/FSB-K7Q2ZP.pdf")

	customer := func(id string) context.Context {
		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

		return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleCustomer)
	}

	t.Run("owner downloads the stored ticket", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.s3.EXPECT().Get(gomock.Any(), "tickets/FSB-K7Q2ZP.pdf").Return([]byte("%PDF-1.4"), nil)

		file, err := f.svc.Download(customer("user-1"), stored.Ref)
		assert.NoError(t, err)
		assert.Equal(t, "FSB-K7Q2ZP.pdf", file.FileName)
		assert.Equal(t, constant.ContentTypePDF, file.ContentType)
	})

	t.Run("other customers cannot see it", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		_, err := f.svc.Download(customer("user-2"), stored.Ref)
		assert.True(t, errors.Is(err, bookingModel.ErrNotFound))
	})

	t.Run("missing ticket", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paidBooking("FSB-K7Q2ZP"), nil)

		_, err := f.svc.Download(context.Background(), "FSB-K7Q2ZP")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTicketService_RetryPending(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 20}, gomock.Any()).
		Return([]bookingModel.Booking{paidBooking("FSB-AAAAAA"), paidBooking("FSB-BBBBBB")}, nil)

	f.expectTicketData()
	f.expectTicketData()

	gomock.InOrder(
		f.s3.EXPECT().Put(gomock.Any(), "tickets/FSB-AAAAAA.pdf", gomock.Any(), gomock.Any()).
			Return("", errors.New("bucket unavailable")),
		f.s3.EXPECT().Put(gomock.Any(), "tickets/FSB-BBBBBB.pdf", gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/tickets/FSB-BBBBBB.pdf", nil),
	)

	gomock.InOrder(
		f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, bookingModel.TicketFailed, req[bookingModel.FieldTicketStatus])

				return nil
			}),
		f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, bookingModel.TicketGenerated, req[bookingModel.FieldTicketStatus])

				return nil
			}),
	)

	generated, err := f.svc.RetryPending(context.Background(), 20)
	assert.NoError(t, err)
	assert.Equal(t, 1, generated)
}
