package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"charter/config"
	"charter/infras/otel"
	auditModel "charter/internal/domains/audit/model"
	auditDto "charter/internal/domains/audit/model/dto"
	auditService "charter/internal/domains/audit/service"
	"charter/internal/domains/booking/model"
	"charter/internal/domains/booking/model/dto"
	"charter/internal/domains/booking/repository"
	settingsService "charter/internal/domains/settings/service"
	timeEntryModel "charter/internal/domains/timeentry/model"
	timeEntryRepo "charter/internal/domains/timeentry/repository"
	timeEntryService "charter/internal/domains/timeentry/service"
	userService "charter/internal/domains/user/service"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	gModel "charter/shared/model"
	gRepo "charter/shared/repository"
	"charter/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	// Create holds seats and opens a PENDING_PAYMENT booking in one transaction.
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, ref string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Move(ctx context.Context, ref string, req dto.MoveBookingRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, ref string, req dto.CancelBookingRequest) error
	RequestCancellation(ctx context.Context, ref string, req dto.RequestCancellationRequest) error
	GetCancellations(ctx context.Context, params gDto.QueryParams, status string) (dto.GetCancellationsResponse, error)

	// ExpireHolds expires every lapsed unpaid hold and returns its seats. Safe to run concurrently.
	ExpireHolds(ctx context.Context, now time.Time) (int, error)
}

type serviceImpl struct {
	repo         repository.Booking
	passengers   repository.Passenger
	cancellation repository.Cancellation
	timeEntry    timeEntryRepo.TimeEntry
	tx           gRepo.Transactor
	fx           settingsService.FXRate
	users        userService.User
	audit        auditService.Audit
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	passengers repository.Passenger,
	cancellation repository.Cancellation,
	timeEntry timeEntryRepo.TimeEntry,
	tx gRepo.Transactor,
	fx settingsService.FXRate,
	users userService.User,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		passengers:   passengers,
		cancellation: cancellation,
		timeEntry:    timeEntry,
		tx:           tx,
		fx:           fx,
		users:        users,
		audit:        audit,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.Pax < 1 {
		return res, failure.BadRequestFromString("pax must be at least 1")
	}

	bookerID, err := s.booker(ctx, req)
	if err != nil {
		return res, err
	}

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	var booking model.Booking

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		entry, err := s.timeEntry.ReserveSeats(ctx, tx, req.TimeEntryID, req.Pax)
		if err != nil {
			return err
		}

		if entry.Status != timeEntryModel.StatusPublished {
			return failure.Conflict("departure is not open for booking")
		}

		ref, err := s.allocateReference(ctx)
		if err != nil {
			return err
		}

		booking = s.newBooking(ctx, entry, ref, bookerID, req.Pax, rate)

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			log.Error().Err(err).Msg("failed to insert booking")

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		passengers := req.PassengersFor(booking.ID, booking.Metadata)
		if err = s.passengers.InsertBulkTx(ctx, tx, passengers); err != nil {
			log.Error().Err(err).Msg("failed to insert passengers")

			return fmt.Errorf("failed to insert passengers: %w", err)
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "booking.create",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details: map[string]any{
				"booking_ref": booking.Ref, "time_entry_id": booking.TimeEntryID, "pax": booking.Pax,
				"total_usd": booking.TotalUSD,
			},
		})
	})
	if err != nil {
		return res, err
	}

	s.invalidateAvailability(ctx)

	log.Info().Str("booking_ref", booking.Ref).Int("pax", booking.Pax).Msg("booking created")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) newBooking(ctx context.Context, entry timeEntryModel.TimeEntry, ref, userID string, pax, rate int) model.Booking {
	unitUSD, unitTZS := entry.UnitPrice(rate)
	hold := timezone.Now().Add(time.Duration(s.cfg.Booking.HoldMinutes) * time.Minute)

	exchangeRate := entry.ExchangeRate
	if exchangeRate == nil {
		exchangeRate = &rate
	}

	currency := entry.Currency
	if currency == constant.Empty {
		currency = timeEntryModel.CurrencyUSD
	}

	role := shared.ActorRole(ctx)
	if role == constant.Empty {
		role = constant.RoleCustomer
	}

	return model.Booking{
		ID:               uuid.NewString(),
		Ref:              ref,
		TimeEntryID:      entry.ID,
		UserID:           userID,
		CreatedByRole:    role,
		Currency:         currency,
		ExchangeRateUsed: exchangeRate,
		Pax:              pax,
		UnitPriceUSD:     unitUSD,
		UnitPriceTZS:     unitTZS,
		TotalUSD:         unitUSD * pax,
		TotalTZS:         unitTZS * pax,
		Status:           model.StatusPendingPayment,
		PaymentStatus:    model.PaymentPending,
		HoldExpiresAt:    &hold,
		TicketStorage:    model.TicketStorageS3,
		TicketStatus:     model.TicketNone,
		Metadata:         gModel.NewMetadata(timezone.Now(), shared.Actor(ctx)),
	}
}

// booker resolves who owns the new booking: the caller when signed in, otherwise the
// customer account behind the booker email.
func (s *serviceImpl) booker(ctx context.Context, req dto.CreateBookingRequest) (string, error) {
	if req.BookerEmail == constant.Empty {
		if actor := shared.Actor(ctx); actor != constant.ActorSystem {
			return actor, nil
		}

		return "", failure.BadRequestFromString("booker_email is required")
	}

	user, err := s.users.GetOrCreateCustomer(ctx, req.BookerEmail, req.BookerName)
	if err != nil {
		return "", err
	}

	return user.ID, nil
}

func (s *serviceImpl) allocateReference(ctx context.Context) (string, error) {
	for range s.cfg.Booking.ReferenceAttempts {
		ref, err := model.NewReference(s.cfg.Booking.ReferencePrefix, s.cfg.Booking.ReferenceLength)
		if err != nil {
			return "", err
		}

		taken, err := s.repo.Exist(ctx, shared.FilterByField(model.FieldRef, ref, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking reference")

			return "", fmt.Errorf("failed to check booking reference: %w", err)
		}

		if !taken {
			return ref, nil
		}
	}

	log.Error().Int("attempts", s.cfg.Booking.ReferenceAttempts).Msg("booking reference space exhausted")

	return "", model.ReferenceExhausted()
}

func (s *serviceImpl) Get(ctx context.Context, ref string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, ref)
	if err != nil {
		return res, err
	}

	passengers, err := s.passengers.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByField(model.FieldBookingID, booking.ID, model.PassengerTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get passengers")

		return res, fmt.Errorf("failed to get passengers: %w", err)
	}

	res.FromModel(booking)
	res.WithPassengers(passengers)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	return s.GetAll(ctx, params, shared.FilterByField(model.FieldUserID, shared.Actor(ctx), model.TableName))
}

func (s *serviceImpl) Move(ctx context.Context, ref string, req dto.MoveBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Move")
	defer scope.End()
	defer scope.TraceIfError(&err)

	var booking model.Booking

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err = s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}

		if !booking.HoldsSeats() || booking.Status == model.StatusCompleted {
			return failure.Conflict("booking in status " + booking.Status + " cannot be moved")
		}

		targetID, err := s.resolveTarget(ctx, booking.TimeEntryID, req.Target)
		if err != nil {
			return err
		}

		if targetID == booking.TimeEntryID {
			return failure.BadRequestFromString("booking is already on that departure")
		}

		if err = s.lockEntries(ctx, tx, booking.TimeEntryID, targetID); err != nil {
			return err
		}

		if err = s.timeEntry.ReleaseSeats(ctx, tx, booking.TimeEntryID, booking.Pax); err != nil {
			return err
		}

		if _, err = s.timeEntry.ReserveSeats(ctx, tx, targetID, booking.Pax); err != nil {
			return err
		}

		from := booking.TimeEntryID
		booking.TimeEntryID = targetID

		err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldTimeEntryID:   targetID,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: shared.Actor(ctx),
		}, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to move booking")

			return fmt.Errorf("failed to move booking: %w", err)
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "booking.move",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details:    map[string]any{"from": from, "to": targetID, "reason": req.Reason},
		})
	})
	if err != nil {
		return res, err
	}

	s.invalidateAvailability(ctx)

	res.FromModel(booking)

	return res, nil
}

// resolveTarget accepts a time entry id or a "YYYY-MM-DD HH:MM" departure on the current route.
func (s *serviceImpl) resolveTarget(ctx context.Context, currentID, target string) (string, error) {
	target = strings.TrimSpace(target)

	at, err := time.Parse(constant.DayClockFormat, target)
	if err != nil {
		return target, nil //nolint:nilerr
	}

	current, err := s.timeEntry.Get(ctx, shared.FilterByID(currentID, timeEntryModel.FieldID, timeEntryModel.TableName))
	if err != nil {
		return "", fmt.Errorf("failed to get current departure: %w", err)
	}

	entry, err := s.timeEntry.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: timeEntryModel.FieldRouteID, Operator: gDto.FilterOperatorEq, Value: current.RouteID, Table: timeEntryModel.TableName},
			gDto.Filter{Field: timeEntryModel.FieldDate, Operator: gDto.FilterOperatorEq, Value: at.Format(constant.DayFormat), Table: timeEntryModel.TableName},
			gDto.Filter{Field: timeEntryModel.FieldStart, Operator: gDto.FilterOperatorEq, Value: at.Format(constant.ClockFormat), Table: timeEntryModel.TableName},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to find target departure: %w", err)
	}

	if entry.ID == constant.Empty {
		return "", timeEntryModel.NotFound()
	}

	return entry.ID, nil
}

// lockEntries takes the row locks in id order so two opposite moves cannot deadlock.
func (s *serviceImpl) lockEntries(ctx context.Context, tx *sqlx.Tx, ids ...string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	for _, id := range sorted {
		entry, err := s.timeEntry.GetForUpdate(ctx, tx, shared.FilterByID(id, timeEntryModel.FieldID, timeEntryModel.TableName))
		if err != nil {
			return err
		}

		if entry.ID == constant.Empty {
			return timeEntryModel.NotFound()
		}
	}

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, ref string, req dto.CancelBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.RefundAmountUSD < 0 {
		return failure.BadRequestFromString("refund amount cannot be negative")
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}

		if booking.Status == model.StatusCancelled {
			return failure.Conflict("booking " + ref + " is already cancelled")
		}

		held := booking.HoldsSeats()

		paymentStatus := booking.PaymentStatus
		if req.RefundAmountUSD > 0 && paymentStatus == model.PaymentPaid {
			paymentStatus = model.PaymentRefunded
		}

		if err = booking.Transition(model.StatusCancelled, paymentStatus); err != nil {
			return failure.Wrap(http.StatusConflict, err)
		}

		if held {
			if err = s.timeEntry.ReleaseSeats(ctx, tx, booking.TimeEntryID, booking.Pax); err != nil {
				return err
			}
		}

		if err = s.setStatus(ctx, tx, booking); err != nil {
			return err
		}

		now := timezone.Now()
		actor := shared.Actor(ctx)

		reason := req.Note
		if reason == constant.Empty {
			reason = "ops_cancel"
		}

		err = s.cancellation.InsertTx(ctx, tx, model.Cancellation{
			ID:                uuid.NewString(),
			BookingID:         booking.ID,
			BookingRef:        booking.Ref,
			RequestedByUserID: actor,
			Reason:            reason,
			Status:            model.CancellationApproved,
			RefundAmountUSD:   req.RefundAmountUSD,
			DecidedByUserID:   actor,
			DecidedAt:         &now,
			Metadata:          gModel.NewMetadata(now, actor),
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to record cancellation")

			return fmt.Errorf("failed to record cancellation: %w", err)
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "booking.cancel",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details:    map[string]any{"refund_usd": req.RefundAmountUSD, "payment_status": booking.PaymentStatus},
		})
	})
	if err != nil {
		return err
	}

	s.invalidateAvailability(ctx)

	return nil
}

func (s *serviceImpl) RequestCancellation(ctx context.Context, ref string, req dto.RequestCancellationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RequestCancellation")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, ref)
	if err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	if shared.ActorRole(ctx) == constant.RoleCustomer && booking.UserID != actor {
		return model.NotFound()
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) || booking.Status == model.StatusCancelled {
		return failure.Conflict("booking in status " + booking.Status + " cannot be cancelled")
	}

	return s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		cancellation := model.Cancellation{
			ID:                uuid.NewString(),
			BookingID:         booking.ID,
			BookingRef:        booking.Ref,
			RequestedByUserID: actor,
			Reason:            req.Reason,
			Status:            model.CancellationRequested,
			Metadata:          gModel.NewMetadata(timezone.Now(), actor),
		}

		if err := s.cancellation.InsertTx(ctx, tx, cancellation); err != nil {
			log.Error().Err(err).Msg("failed to request cancellation")

			return fmt.Errorf("failed to request cancellation: %w", err)
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "booking.cancellation_requested",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details:    map[string]any{"reason": req.Reason},
		})
	})
}

func (s *serviceImpl) GetCancellations(ctx context.Context, params gDto.QueryParams, status string) (res dto.GetCancellationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetCancellations")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := gDto.FilterGroup{}
	if status != constant.Empty {
		filter = shared.FilterByField(model.FieldStatus, status, model.CancellationTableName)
	}

	total, err := s.cancellation.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count cancellations")

		return res, fmt.Errorf("failed to count cancellations: %w", err)
	}

	models, err := s.cancellation.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get cancellations")

		return res, fmt.Errorf("failed to get cancellations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) ExpireHolds(ctx context.Context, now time.Time) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpireHolds")
	defer scope.End()
	defer scope.TraceIfError(&err)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		expired, err := s.repo.ExpireHolds(ctx, tx, now, constant.ActorWorker)
		if err != nil {
			return err
		}

		for _, row := range expired {
			if err = s.timeEntry.ReleaseSeats(ctx, tx, row.TimeEntryID, row.Pax); err != nil {
				return err
			}

			err = s.audit.Log(ctx, tx, auditDto.Entry{
				Action:     "booking.expire",
				EntityType: auditModel.EntityBooking,
				EntityID:   row.ID,
				Details:    map[string]any{"booking_ref": row.Ref, "pax": row.Pax},
			})
			if err != nil {
				return err
			}
		}

		count = len(expired)

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to expire holds")

		return 0, err
	}

	if count > 0 {
		s.invalidateAvailability(ctx)
		log.Info().Int("expired", count).Msg("expired unpaid holds")
	}

	return count, nil
}

func (s *serviceImpl) setStatus(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	err := s.repo.UpdateTx(ctx, tx, map[string]any{
		model.FieldStatus:        booking.Status,
		model.FieldPaymentStatus: booking.PaymentStatus,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.Actor(ctx),
	}, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_ref", booking.Ref).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil
}

func (s *serviceImpl) find(ctx context.Context, ref string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByField(model.FieldRef, ref, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, model.NotFound()
	}

	return booking, nil
}

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, ref string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdate(ctx, tx, shared.FilterByField(model.FieldRef, ref, model.TableName))
	if err != nil {
		return booking, err
	}

	if booking.ID == constant.Empty {
		return booking, model.NotFound()
	}

	return booking, nil
}

func (s *serviceImpl) invalidateAvailability(ctx context.Context) {
	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, timeEntryService.CacheAvailability)
}
