package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"charter/config"
	"charter/infras/kafka"
	"charter/infras/otel"
	auditModel "charter/internal/domains/audit/model"
	auditDto "charter/internal/domains/audit/model/dto"
	auditService "charter/internal/domains/audit/service"
	bookingModel "charter/internal/domains/booking/model"
	bookingRepo "charter/internal/domains/booking/repository"
	"charter/internal/domains/pilot/model"
	"charter/internal/domains/pilot/model/dto"
	"charter/internal/domains/pilot/repository"
	timeEntryModel "charter/internal/domains/timeentry/model"
	timeEntryRepo "charter/internal/domains/timeentry/repository"
	userService "charter/internal/domains/user/service"
	"charter/shared"
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

type Pilot interface {
	// Assign puts a pilot on a departure. Assigning the same pilot twice returns the first assignment.
	Assign(ctx context.Context, req dto.AssignPilotRequest) (dto.AssignmentResponse, error)
	Accept(ctx context.Context, id string) (dto.AssignmentResponse, error)
	// Complete marks a confirmed booking as flown and closes the departure's assignments.
	Complete(ctx context.Context, bookingRef string) error
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetAssignmentsResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAssignmentsResponse, error)

	// NotifyForBooking queues one email per assigned pilot. A booking is announced at most once.
	NotifyForBooking(ctx context.Context, bookingRef string) error
}

type serviceImpl struct {
	repo      repository.Assignment
	bookings  bookingRepo.Booking
	timeEntry timeEntryRepo.TimeEntry
	tx        gRepo.Transactor
	users     userService.User
	kafka     kafka.Client
	audit     auditService.Audit
	cfg       *config.Config
	otel      otel.Otel
}

func New(
	repo repository.Assignment,
	bookings bookingRepo.Booking,
	timeEntry timeEntryRepo.TimeEntry,
	tx gRepo.Transactor,
	users userService.User,
	kafka kafka.Client,
	audit auditService.Audit,
	cfg *config.Config,
	otel otel.Otel,
) Pilot {
	return &serviceImpl{
		repo:      repo,
		bookings:  bookings,
		timeEntry: timeEntry,
		tx:        tx,
		users:     users,
		kafka:     kafka,
		audit:     audit,
		cfg:       cfg,
		otel:      otel,
	}
}

func (s *serviceImpl) Assign(ctx context.Context, req dto.AssignPilotRequest) (res dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pilot.Assign")
	defer scope.End()
	defer scope.TraceIfError(&err)

	pilot, err := s.users.GetByEmail(ctx, req.PilotEmail)
	if err != nil {
		return res, err
	}

	if pilot.ID == constant.Empty {
		return res, failure.NotFound("pilot")
	}

	if pilot.Role != constant.RolePilot || !pilot.Active {
		return res, failure.BadRequestFromString(req.PilotEmail + " is not an active pilot")
	}

	entry, err := s.timeEntry.Get(ctx, shared.FilterByID(req.TimeEntryID, timeEntryModel.FieldID, timeEntryModel.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get departure: %w", err)
	}

	if entry.ID == constant.Empty {
		return res, timeEntryModel.NotFound()
	}

	existing, err := s.findAssignment(ctx, entry.ID, pilot.ID)
	if err != nil {
		return res, err
	}

	if existing.ID != constant.Empty {
		res.FromModel(existing)

		return res, nil
	}

	assignment := model.Assignment{
		ID:          uuid.NewString(),
		TimeEntryID: entry.ID,
		PilotUserID: pilot.ID,
		Status:      model.StatusAssigned,
		Metadata:    gModel.NewMetadata(timezone.Now(), shared.Actor(ctx)),
	}

	if err = s.repo.Insert(ctx, assignment); err != nil {
		if !shared.IsUniqueViolation(err) {
			log.Error().Err(err).Msg("failed to assign pilot")

			return res, fmt.Errorf("failed to assign pilot: %w", err)
		}

		if assignment, err = s.findAssignment(ctx, entry.ID, pilot.ID); err != nil {
			return res, err
		}
	} else {
		s.record(ctx, "pilot.assign", assignment.ID, map[string]any{"time_entry_id": entry.ID, "pilot": pilot.Email})
	}

	res.FromModel(assignment)

	return res, nil
}

func (s *serviceImpl) findAssignment(ctx context.Context, timeEntryID, pilotID string) (model.Assignment, error) {
	assignment, err := s.repo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldTimeEntryID, Operator: gDto.FilterOperatorEq, Value: timeEntryID, Table: model.TableName},
			gDto.Filter{Field: model.FieldPilotUserID, Operator: gDto.FilterOperatorEq, Value: pilotID, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get pilot assignment")

		return assignment, fmt.Errorf("failed to get pilot assignment: %w", err)
	}

	return assignment, nil
}

func (s *serviceImpl) Accept(ctx context.Context, id string) (res dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pilot.Accept")
	defer scope.End()
	defer scope.TraceIfError(&err)

	assignment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get pilot assignment")

		return res, fmt.Errorf("failed to get pilot assignment: %w", err)
	}

	if assignment.ID == constant.Empty || !s.owns(ctx, assignment) {
		return res, model.NotFound()
	}

	switch assignment.Status {
	case model.StatusCompleted:
		return res, failure.Conflict("assignment is already completed")
	case model.StatusAssigned:
		assignment.Status = model.StatusAccepted

		err = s.repo.Update(ctx, map[string]any{
			model.FieldStatus:        model.StatusAccepted,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: shared.Actor(ctx),
		}, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to accept pilot assignment")

			return res, fmt.Errorf("failed to accept pilot assignment: %w", err)
		}

		s.record(ctx, "pilot.accept", id, nil)
	}

	res.FromModel(assignment)

	return res, nil
}

// owns reports whether the caller may act on the assignment. Staff act on any of them.
func (s *serviceImpl) owns(ctx context.Context, assignment model.Assignment) bool {
	return shared.ActorRole(ctx) != constant.RolePilot || assignment.PilotUserID == shared.Actor(ctx)
}

func (s *serviceImpl) Complete(ctx context.Context, bookingRef string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pilot.Complete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, shared.FilterByField(bookingModel.FieldRef, bookingRef, bookingModel.TableName))
		if err != nil {
			return err
		}

		if booking.ID == constant.Empty {
			return bookingModel.NotFound()
		}

		filters := []any{
			gDto.Filter{Field: model.FieldTimeEntryID, Operator: gDto.FilterOperatorEq, Value: booking.TimeEntryID, Table: model.TableName},
		}

		if shared.ActorRole(ctx) == constant.RolePilot {
			mine, err := s.findAssignment(ctx, booking.TimeEntryID, shared.Actor(ctx))
			if err != nil {
				return err
			}

			if mine.ID == constant.Empty {
				return failure.Forbidden("you are not assigned to this departure")
			}

			filters = append(filters, gDto.Filter{Field: model.FieldPilotUserID, Operator: gDto.FilterOperatorEq, Value: mine.PilotUserID, Table: model.TableName})
		}

		if err = booking.Transition(bookingModel.StatusCompleted, bookingModel.PaymentPaid); err != nil {
			return failure.Wrap(http.StatusConflict, err)
		}

		now := timezone.Now()
		actor := shared.Actor(ctx)

		err = s.bookings.UpdateTx(ctx, tx, map[string]any{
			bookingModel.FieldStatus: booking.Status,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor,
		}, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to complete booking")

			return fmt.Errorf("failed to complete booking: %w", err)
		}

		err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        model.StatusCompleted,
			model.FieldCompletedAt:   now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor,
		}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters})
		if err != nil {
			log.Error().Err(err).Msg("failed to complete pilot assignment")

			return fmt.Errorf("failed to complete pilot assignment: %w", err)
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "booking.complete",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details:    map[string]any{"booking_ref": booking.Ref},
		})
	})
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetAssignmentsResponse, error) {
	return s.GetAll(ctx, params, shared.FilterByField(model.FieldPilotUserID, shared.Actor(ctx), model.TableName))
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAssignmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pilot.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count pilot assignments")

		return res, fmt.Errorf("failed to count pilot assignments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pilot assignments")

		return res, fmt.Errorf("failed to get pilot assignments: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) NotifyForBooking(ctx context.Context, bookingRef string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pilot.NotifyForBooking")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.bookings.Get(ctx, shared.FilterByField(bookingModel.FieldRef, bookingRef, bookingModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return bookingModel.NotFound()
	}

	if booking.PilotNotifiedAt != nil || booking.Status != bookingModel.StatusConfirmed {
		return nil
	}

	assignments, err := s.repo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByField(model.FieldTimeEntryID, booking.TimeEntryID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to get pilot assignments: %w", err)
	}

	if len(assignments) == 0 {
		log.Info().Str("booking_ref", bookingRef).Msg("no pilot assigned yet, skipping notification")

		return nil
	}

	entry, err := s.timeEntry.Get(ctx, shared.FilterByID(booking.TimeEntryID, timeEntryModel.FieldID, timeEntryModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get departure: %w", err)
	}

	messages := make([]kafka.Message, 0, len(assignments))

	for _, assignment := range assignments {
		pilot, err := s.users.Get(ctx, assignment.PilotUserID)
		if err != nil {
			log.Warn().Err(err).Str("pilot", assignment.PilotUserID).Msg("skipping pilot without account")

			continue
		}

		messages = append(messages, kafka.Message{
			Key: booking.Ref,
			Value: dto.EmailNotification{
				To:         pilot.Email,
				Subject:    "New booking " + booking.Ref,
				Body:       notificationBody(booking, entry),
				BookingRef: booking.Ref,
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err = s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.NotificationEmail, messages...); err != nil {
		return err
	}

	claimed, err := s.bookings.ClaimPilotNotification(ctx, booking.ID, timezone.Now())
	if err != nil {
		return err
	}

	if !claimed {
		log.Warn().Str("booking_ref", bookingRef).Msg("pilot notification raced with another worker")
	}

	return nil
}

func notificationBody(booking bookingModel.Booking, entry timeEntryModel.TimeEntry) string {
	return fmt.Sprintf("Booking %s: %d passenger(s) on flight %s departing %s %s.",
		booking.Ref, booking.Pax, entry.FlightNo, entry.Date, entry.Start)
}

func (s *serviceImpl) record(ctx context.Context, action, id string, details map[string]any) {
	err := s.audit.Log(ctx, nil, auditDto.Entry{
		Action:     action,
		EntityType: auditModel.EntityPilot,
		EntityID:   id,
		Details:    details,
	})
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("failed to audit pilot assignment")
	}
}
