package worker_test

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	kafkaMocks "charter/infras/kafka/mocks"
	"charter/infras/otel/mocks"
	bookingMocks "charter/internal/domains/booking/service/mocks"
	pilotMocks "charter/internal/domains/pilot/service/mocks"
	slotRuleDto "charter/internal/domains/slotrule/model/dto"
	slotRuleMocks "charter/internal/domains/slotrule/service/mocks"
	ticketDto "charter/internal/domains/ticket/model/dto"
	ticketMocks "charter/internal/domains/ticket/service/mocks"
	cacheMocks "charter/shared/cache/mocks"
	"charter/transport/worker"
)

type fixture struct {
	bookings *bookingMocks.MockBooking
	slots    *slotRuleMocks.MockSlotRule
	tickets  *ticketMocks.MockTicket
	pilots   *pilotMocks.MockPilot
	kafka    *kafkaMocks.MockClient
	cache    *cacheMocks.MockRedisCache
}

func newWorker(t *testing.T, presetPlan string) (*worker.Worker, fixture) {
	ctrl := gomock.NewController(t)

	f := fixture{
		bookings: bookingMocks.NewMockBooking(ctrl),
		slots:    slotRuleMocks.NewMockSlotRule(ctrl),
		tickets:  ticketMocks.NewMockTicket(ctrl),
		pilots:   pilotMocks.NewMockPilot(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Worker.LockTTLSeconds = 55
	cfg.Worker.TicketRetryBatch = 50
	cfg.Worker.PresetPlanID = presetPlan
	cfg.Worker.PresetWeeksAhead = 4

	w := worker.New(cfg, f.bookings, f.slots, f.tickets, f.pilots, f.kafka, f.cache, mocks.NewOtel())

	return w, f
}

func confirmedMessage(body string) kafkaGo.Message {
	return kafkaGo.Message{Key: []byte("FSB-K7Q2ZP"), Value: []byte(body)}
}

func TestWorker_HandleBookingConfirmed(t *testing.T) {
	tests := []struct {
		name      string
		msg       kafkaGo.Message
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "ticket and notification",
			msg:  confirmedMessage(`{"booking_id":"b-1","booking_ref":"FSB-K7Q2ZP"}`),
			setupMock: func(f fixture) {
				f.tickets.EXPECT().Generate(gomock.Any(), "FSB-K7Q2ZP").Return(ticketDto.TicketResponse{BookingRef: "FSB-K7Q2ZP"}, nil)
				f.pilots.EXPECT().NotifyForBooking(gomock.Any(), "FSB-K7Q2ZP").Return(nil)
			},
		},
		{
			name: "ticket failure still notifies",
			msg:  confirmedMessage(`{"booking_id":"b-1","booking_ref":"FSB-K7Q2ZP"}`),
			setupMock: func(f fixture) {
				f.tickets.EXPECT().Generate(gomock.Any(), "FSB-K7Q2ZP").Return(ticketDto.TicketResponse{}, errors.New("s3 down"))
				f.pilots.EXPECT().NotifyForBooking(gomock.Any(), "FSB-K7Q2ZP").Return(nil)
			},
		},
		{
			name: "notification failure is redelivered",
			msg:  confirmedMessage(`{"booking_id":"b-1","booking_ref":"FSB-K7Q2ZP"}`),
			setupMock: func(f fixture) {
				f.tickets.EXPECT().Generate(gomock.Any(), "FSB-K7Q2ZP").Return(ticketDto.TicketResponse{}, nil)
				f.pilots.EXPECT().NotifyForBooking(gomock.Any(), "FSB-K7Q2ZP").Return(errors.New("kafka down"))
			},
			wantErr: true,
		},
		{
			name: "malformed payload is dropped",
			msg:  confirmedMessage(`{not json`),
		},
		{
			name: "missing reference is dropped",
			msg:  confirmedMessage(`{"booking_id":"b-1"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, f := newWorker(t, "")

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			err := w.HandleBookingConfirmed(context.Background(), tt.msg)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorker_RunLocked(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantRan   bool
	}{
		{
			name: "lock acquired",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Lock(gomock.Any(), "worker_lock:expire_holds", gomock.Any(), 55).Return(true, nil)
				f.bookings.EXPECT().ExpireHolds(gomock.Any(), gomock.Any()).Return(3, nil)
				f.cache.EXPECT().Unlock(gomock.Any(), "worker_lock:expire_holds", gomock.Any()).Return(nil)
			},
			wantRan: true,
		},
		{
			name: "lock held elsewhere",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any(), 55).Return(false, nil)
			},
		},
		{
			name: "lock error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any(), 55).Return(false, errors.New("redis down"))
			},
		},
		{
			name: "job failure releases the lock",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any(), 55).Return(true, nil)
				f.bookings.EXPECT().ExpireHolds(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
				f.cache.EXPECT().Unlock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantRan: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, f := newWorker(t, "")
			tt.setupMock(f)

			ran := w.RunLocked(context.Background(), worker.JobExpireHolds, w.ExpireHolds)

			assert.Equal(t, tt.wantRan, ran)
		})
	}
}

func TestWorker_GenerateSlots(t *testing.T) {
	tests := []struct {
		name       string
		presetPlan string
		setupMock  func(f fixture)
		wantErr    bool
	}{
		{
			name: "rules only",
			setupMock: func(f fixture) {
				f.slots.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(slotRuleDto.GenerateResult{Rules: 2, Created: 14}, nil)
			},
		},
		{
			name:       "rules and preset plan",
			presetPlan: "mainland-summer",
			setupMock: func(f fixture) {
				f.slots.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(slotRuleDto.GenerateResult{}, nil)
				f.slots.EXPECT().ApplyPreset(gomock.Any(), "mainland-summer", 4, gomock.Any()).Return(12, nil)
			},
		},
		{
			name:       "generation failure skips the preset",
			presetPlan: "mainland-summer",
			setupMock: func(f fixture) {
				f.slots.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(slotRuleDto.GenerateResult{}, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, f := newWorker(t, tt.presetPlan)
			tt.setupMock(f)

			err := w.GenerateSlots(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorker_RetryTickets(t *testing.T) {
	w, f := newWorker(t, "")

	f.tickets.EXPECT().RetryPending(gomock.Any(), 50).Return(2, nil)

	assert.NoError(t, w.RetryTickets(context.Background()))
}
