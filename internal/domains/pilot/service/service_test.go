package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/kafka"
	kafkaMocks "charter/infras/kafka/mocks"
	"charter/infras/otel/mocks"
	auditMocks "charter/internal/domains/audit/service/mocks"
	bookingMocks "charter/internal/domains/booking/mocks"
	bookingModel "charter/internal/domains/booking/model"
	pilotMocks "charter/internal/domains/pilot/mocks"
	"charter/internal/domains/pilot/model"
	"charter/internal/domains/pilot/model/dto"
	"charter/internal/domains/pilot/service"
	timeEntryMocks "charter/internal/domains/timeentry/mocks"
	timeEntryModel "charter/internal/domains/timeentry/model"
	userModel "charter/internal/domains/user/model"
	userDto "charter/internal/domains/user/model/dto"
	userMocks "charter/internal/domains/user/service/mocks"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	repoMocks "charter/shared/repository/mocks"
)

type fixture struct {
	repo      *pilotMocks.MockAssignment
	bookings  *bookingMocks.MockBooking
	timeEntry *timeEntryMocks.MockTimeEntry
	users     *userMocks.MockUser
	kafka     *kafkaMocks.MockClient
	audit     *auditMocks.MockAudit
	svc       service.Pilot
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Topics.NotificationEmail = "notification.email"

	tx := repoMocks.NewMockTransactor(ctrl)
	tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		}).AnyTimes()

	f := fixture{
		repo:      pilotMocks.NewMockAssignment(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
		timeEntry: timeEntryMocks.NewMockTimeEntry(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
		audit:     auditMocks.NewMockAudit(ctrl),
	}

	f.audit.EXPECT().Log(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.bookings, f.timeEntry, tx, f.users, f.kafka, f.audit, cfg, mocks.NewOtel())

	return f
}

func pilotCtx(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RolePilot)
}

func TestPilotService_Assign(t *testing.T) {
	req := dto.AssignPilotRequest{TimeEntryID: "te-1", PilotEmail: "pilot@flyzanzibar.com"}
	pilot := userModel.User{ID: "pilot-1", Email: req.PilotEmail, Role: constant.RolePilot, Active: true}

	tests := []struct {
		name       string
		setupMock  func(f fixture)
		wantStatus string
		wantCode   int
	}{
		{
			name: "new assignment",
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), req.PilotEmail).Return(pilot, nil)
				f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeEntryModel.TimeEntry{ID: "te-1"}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Assignment{}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a model.Assignment) error {
						assert.Equal(t, "te-1", a.TimeEntryID)
						assert.Equal(t, "pilot-1", a.PilotUserID)

						return nil
					})
			},
			wantStatus: model.StatusAssigned,
		},
		{
			name: "already assigned returns existing",
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), req.PilotEmail).Return(pilot, nil)
				f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeEntryModel.TimeEntry{ID: "te-1"}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Assignment{ID: "a-1", Status: model.StatusAccepted}, nil)
			},
			wantStatus: model.StatusAccepted,
		},
		{
			name: "concurrent insert falls back to existing row",
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), req.PilotEmail).Return(pilot, nil)
				f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeEntryModel.TimeEntry{ID: "te-1"}, nil)
				gomock.InOrder(
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Assignment{}, nil),
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
						Return(model.Assignment{ID: "a-1", Status: model.StatusAssigned}, nil),
				)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantStatus: model.StatusAssigned,
		},
		{
			name: "unknown pilot",
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), req.PilotEmail).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "not a pilot",
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), req.PilotEmail).
					Return(userModel.User{ID: "u-1", Role: constant.RoleOps, Active: true}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown departure",
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), req.PilotEmail).Return(pilot, nil)
				f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeEntryModel.TimeEntry{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Assign(context.Background(), req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestPilotService_Accept(t *testing.T) {
	t.Run("someone else's assignment is hidden", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Assignment{ID: "a-1", PilotUserID: "pilot-2", Status: model.StatusAssigned}, nil)

		_, err := f.svc.Accept(pilotCtx("pilot-1"), "a-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("assigned becomes accepted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Assignment{ID: "a-1", PilotUserID: "pilot-1", Status: model.StatusAssigned}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusAccepted, req[model.FieldStatus])

				return nil
			})

		res, err := f.svc.Accept(pilotCtx("pilot-1"), "a-1")
		assert.NoError(t, err)
		assert.Equal(t, model.StatusAccepted, res.Status)
	})

	t.Run("completed cannot be accepted again", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Assignment{ID: "a-1", PilotUserID: "pilot-1", Status: model.StatusCompleted}, nil)

		_, err := f.svc.Accept(pilotCtx("pilot-1"), "a-1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestPilotService_Complete(t *testing.T) {
	confirmed := bookingModel.Booking{
		ID: "b-1", Ref: "FSB-AAAAAA", TimeEntryID: "te-1",
		Status: bookingModel.StatusConfirmed, PaymentStatus: bookingModel.PaymentPaid,
	}

	tests := []struct {
		name      string
		booking   bookingModel.Booking
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:    "assigned pilot completes a confirmed booking",
			booking: confirmed,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Assignment{ID: "a-1", PilotUserID: "pilot-1"}, nil)
				f.bookings.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusCompleted, req[bookingModel.FieldStatus])

						return nil
					})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "unassigned pilot is forbidden",
			booking: confirmed,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Assignment{}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "unpaid booking cannot complete",
			booking: bookingModel.Booking{
				ID: "b-1", Ref: "FSB-AAAAAA", TimeEntryID: "te-1",
				Status: bookingModel.StatusPendingPayment, PaymentStatus: bookingModel.PaymentPending,
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Assignment{ID: "a-1", PilotUserID: "pilot-1"}, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			err := f.svc.Complete(pilotCtx("pilot-1"), tt.booking.Ref)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPilotService_NotifyForBooking(t *testing.T) {
	booking := bookingModel.Booking{
		ID: "b-1", Ref: "FSB-AAAAAA", TimeEntryID: "te-1", Pax: 2,
		Status: bookingModel.StatusConfirmed, PaymentStatus: bookingModel.PaymentPaid,
	}
	notified := booking
	notifiedAt := time.Now()
	notified.PilotNotifiedAt = &notifiedAt

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "queues one email per pilot and claims the booking",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Assignment{{PilotUserID: "pilot-1"}, {PilotUserID: "pilot-2"}}, nil)
				f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(timeEntryModel.TimeEntry{ID: "te-1", FlightNo: "FSB0302", Date: "2026-03-02", Start: "09:30"}, nil)
				f.users.EXPECT().Get(gomock.Any(), "pilot-1").Return(userDto.UserResponse{Email: "one@flyzanzibar.com"}, nil)
				f.users.EXPECT().Get(gomock.Any(), "pilot-2").Return(userDto.UserResponse{Email: "two@flyzanzibar.com"}, nil)
				f.kafka.EXPECT().SendMessages(gomock.Any(), "notification.email", gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
						assert.Len(t, messages, 2)

						email, ok := messages[0].Value.(dto.EmailNotification)
						assert.True(t, ok)
						assert.Equal(t, "one@flyzanzibar.com", email.To)
						assert.Contains(t, email.Body, "FSB0302")

						return nil
					})
				f.bookings.EXPECT().ClaimPilotNotification(gomock.Any(), "b-1", gomock.Any()).Return(true, nil)
			},
		},
		{
			name: "already notified is a no-op",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(notified, nil)
			},
		},
		{
			name: "no pilot assigned",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Assignment{}, nil)
			},
		},
		{
			name: "queue failure is returned for redelivery",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Assignment{{PilotUserID: "pilot-1"}}, nil)
				f.timeEntry.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeEntryModel.TimeEntry{ID: "te-1"}, nil)
				f.users.EXPECT().Get(gomock.Any(), "pilot-1").Return(userDto.UserResponse{Email: "one@flyzanzibar.com"}, nil)
				f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.NotifyForBooking(context.Background(), "FSB-AAAAAA")
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}
