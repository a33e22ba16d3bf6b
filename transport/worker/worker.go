package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"charter/config"
	"charter/infras/kafka"
	"charter/infras/otel"
	bookingService "charter/internal/domains/booking/service"
	paymentModel "charter/internal/domains/payment/model"
	pilotService "charter/internal/domains/pilot/service"
	slotRuleService "charter/internal/domains/slotrule/service"
	ticketService "charter/internal/domains/ticket/service"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	"charter/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	cacheKeyLock = "worker_lock"

	JobExpireHolds   = "expire_holds"
	JobGenerateSlots = "generate_slots"
	JobRetryTickets  = "retry_tickets"
)

// Worker runs the periodic jobs and the post-payment consumer. Every periodic job takes a
// redis lock first, so replicas never run the same job at once and a skipped tick is harmless.
type Worker struct {
	cfg      *config.Config
	bookings bookingService.Booking
	slots    slotRuleService.SlotRule
	tickets  ticketService.Ticket
	pilots   pilotService.Pilot
	kafka    kafka.Client
	cache    cache.RedisCache
	otel     otel.Otel
	owner    string
}

func New(
	cfg *config.Config,
	bookings bookingService.Booking,
	slots slotRuleService.SlotRule,
	tickets ticketService.Ticket,
	pilots pilotService.Pilot,
	kafka kafka.Client,
	cache cache.RedisCache,
	otel otel.Otel,
) *Worker {
	host, _ := os.Hostname()

	return &Worker{
		cfg:      cfg,
		bookings: bookings,
		slots:    slots,
		tickets:  tickets,
		pilots:   pilots,
		kafka:    kafka,
		cache:    cache,
		otel:     otel,
		owner:    fmt.Sprintf("%s/%s", host, uuid.NewString()),
	}
}

// Run blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorWorker)

	var wg sync.WaitGroup

	schedule := []struct {
		job      string
		interval int
		startNow bool
		fn       func(ctx context.Context) error
	}{
		{JobExpireHolds, w.cfg.Worker.SweepIntervalSeconds, false, w.ExpireHolds},
		{JobGenerateSlots, w.cfg.Worker.SlotIntervalSeconds, true, w.GenerateSlots},
		{JobRetryTickets, w.cfg.Worker.TicketRetryIntervalSeconds, false, w.RetryTickets},
	}

	for _, s := range schedule {
		wg.Add(1)

		go func() {
			defer wg.Done()

			w.every(ctx, s.job, time.Duration(s.interval)*time.Second, s.startNow, s.fn)
		}()
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		w.kafka.Consume(ctx, w.cfg.Kafka.ConsumerGroup, w.cfg.Kafka.Topics.BookingConfirmed, w.HandleBookingConfirmed)
	}()

	log.Info().Str("owner", w.owner).Msg("Worker started.")

	wg.Wait()

	if err := w.kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client.")
	}

	log.Info().Msg("Worker stopped.")
}

func (w *Worker) every(ctx context.Context, job string, interval time.Duration, startNow bool, fn func(ctx context.Context) error) {
	if interval <= 0 {
		log.Warn().Str("job", job).Msg("job disabled, interval is not positive")

		return
	}

	if startNow {
		w.RunLocked(ctx, job, fn)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunLocked(ctx, job, fn)
		}
	}
}

// RunLocked runs fn when this replica wins the job lock and reports whether it ran.
func (w *Worker) RunLocked(ctx context.Context, job string, fn func(ctx context.Context) error) bool {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+"."+job)
	defer scope.End()

	key := shared.BuildCacheKey(cacheKeyLock, job)

	acquired, err := w.cache.Lock(ctx, key, w.owner, w.cfg.Worker.LockTTLSeconds)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("job", job).Msg("failed to take job lock")

		return false
	}

	if !acquired {
		log.Debug().Str("job", job).Msg("job is running elsewhere")

		return false
	}

	defer func() {
		if err := w.cache.Unlock(context.WithoutCancel(ctx), key, w.owner); err != nil {
			log.Warn().Err(err).Str("job", job).Msg("failed to release job lock")
		}
	}()

	started := time.Now()

	if err = fn(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("job", job).Msg("job failed")

		return true
	}

	log.Debug().Str("job", job).Dur("took", time.Since(started)).Msg("job finished")

	return true
}

func (w *Worker) ExpireHolds(ctx context.Context) error {
	expired, err := w.bookings.ExpireHolds(ctx, timezone.Now())
	if err != nil {
		return fmt.Errorf("failed to expire holds: %w", err)
	}

	if expired > 0 {
		log.Info().Int("expired", expired).Msg("expired unpaid holds")
	}

	return nil
}

// GenerateSlots expands the slot rules and, when configured, keeps a preset weekly plan
// imported for the coming weeks.
func (w *Worker) GenerateSlots(ctx context.Context) error {
	today := timezone.Today()

	res, err := w.slots.Generate(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to generate time entries: %w", err)
	}

	log.Info().Int("rules", res.Rules).Int("created", res.Created).Int("skipped", res.Skipped).
		Strs("errors", res.Errors).Msg("slot generation finished")

	if w.cfg.Worker.PresetPlanID == constant.Empty {
		return nil
	}

	created, err := w.slots.ApplyPreset(ctx, w.cfg.Worker.PresetPlanID, w.cfg.Worker.PresetWeeksAhead, today)
	if err != nil {
		return fmt.Errorf("failed to apply preset plan: %w", err)
	}

	log.Info().Str("plan", w.cfg.Worker.PresetPlanID).Int("created", created).Msg("preset plan applied")

	return nil
}

func (w *Worker) RetryTickets(ctx context.Context) error {
	generated, err := w.tickets.RetryPending(ctx, w.cfg.Worker.TicketRetryBatch)
	if err != nil {
		return fmt.Errorf("failed to retry tickets: %w", err)
	}

	if generated > 0 {
		log.Info().Int("generated", generated).Msg("missing tickets generated")
	}

	return nil
}

// HandleBookingConfirmed performs the side effects of a confirmed payment. A ticket failure is
// left to the retry job; a notification failure is returned so the message is redelivered.
func (w *Worker) HandleBookingConfirmed(ctx context.Context, msg kafkaGo.Message) error {
	event, err := kafka.Decode[paymentModel.BookingConfirmed](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("dropping malformed booking.confirmed event")

		return nil
	}

	if event.BookingRef == constant.Empty {
		log.Error().Str("key", string(msg.Key)).Msg("dropping booking.confirmed event without reference")

		return nil
	}

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorWorker)

	if _, err := w.tickets.Generate(ctx, event.BookingRef); err != nil {
		log.Warn().Err(err).Str("booking_ref", event.BookingRef).Msg("ticket generation deferred to retry")
	}

	var errs []error

	if err := w.pilots.NotifyForBooking(ctx, event.BookingRef); err != nil {
		errs = append(errs, fmt.Errorf("failed to notify pilots: %w", err))
	}

	return errors.Join(errs...)
}
