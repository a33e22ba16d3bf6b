package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"charter/config"
	"charter/infras/otel"
	"charter/infras/s3"
	bookingModel "charter/internal/domains/booking/model"
	bookingRepo "charter/internal/domains/booking/repository"
	routeModel "charter/internal/domains/route/model"
	routeRepo "charter/internal/domains/route/repository"
	"charter/internal/domains/ticket/model"
	"charter/internal/domains/ticket/model/dto"
	timeEntryModel "charter/internal/domains/timeentry/model"
	timeEntryRepo "charter/internal/domains/timeentry/repository"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	"charter/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Ticket interface {
	// Generate renders and stores the ticket of a paid booking. A stored ticket is never rendered twice.
	Generate(ctx context.Context, bookingRef string) (dto.TicketResponse, error)
	Download(ctx context.Context, bookingRef string) (dto.TicketFile, error)
	// RetryPending generates up to limit missing tickets and returns how many succeeded.
	RetryPending(ctx context.Context, limit int) (int, error)
}

type serviceImpl struct {
	bookings   bookingRepo.Booking
	passengers bookingRepo.Passenger
	timeEntry  timeEntryRepo.TimeEntry
	routes     routeRepo.Route
	s3         s3.S3
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	bookings bookingRepo.Booking,
	passengers bookingRepo.Passenger,
	timeEntry timeEntryRepo.TimeEntry,
	routes routeRepo.Route,
	s3 s3.S3,
	cfg *config.Config,
	otel otel.Otel,
) Ticket {
	return &serviceImpl{
		bookings:   bookings,
		passengers: passengers,
		timeEntry:  timeEntry,
		routes:     routes,
		s3:         s3,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) Generate(ctx context.Context, bookingRef string) (res dto.TicketResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.Generate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, bookingRef)
	if err != nil {
		return res, err
	}

	return s.generate(ctx, booking)
}

func (s *serviceImpl) generate(ctx context.Context, booking bookingModel.Booking) (res dto.TicketResponse, err error) {
	res = dto.TicketResponse{BookingRef: booking.Ref, Status: booking.TicketStatus}

	if booking.TicketStatus == bookingModel.TicketGenerated && booking.TicketObjectKey != nil {
		res.ObjectKey = *booking.TicketObjectKey

		return res, nil
	}

	if booking.PaymentStatus != bookingModel.PaymentPaid {
		return res, failure.Conflict("tickets are issued for paid bookings only")
	}

	data, err := s.ticketData(ctx, booking)
	if err != nil {
		s.markFailed(ctx, booking)

		return res, err
	}

	key := model.ObjectKey(booking.Ref)

	url, err := s.s3.Put(ctx, key, constant.ContentTypePDF, model.Render(data))
	if err != nil {
		s.markFailed(ctx, booking)

		return res, fmt.Errorf("failed to store ticket: %w", err)
	}

	err = s.bookings.Update(ctx, map[string]any{
		bookingModel.FieldTicketStatus:    bookingModel.TicketGenerated,
		bookingModel.FieldTicketStorage:   bookingModel.TicketStorageS3,
		bookingModel.FieldTicketObjectKey: key,
		constant.FieldModifiedAt:          timezone.Now(),
	}, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_ref", booking.Ref).Msg("failed to record ticket")

		if delErr := s.s3.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("orphaned ticket object left in bucket")
		}

		return res, fmt.Errorf("failed to record ticket: %w", err)
	}

	log.Info().Str("booking_ref", booking.Ref).Str("key", key).Msg("ticket generated")

	return dto.TicketResponse{BookingRef: booking.Ref, Status: bookingModel.TicketGenerated, ObjectKey: key, URL: url}, nil
}

func (s *serviceImpl) ticketData(ctx context.Context, booking bookingModel.Booking) (model.Data, error) {
	entry, err := s.timeEntry.Get(ctx, shared.FilterByID(booking.TimeEntryID, timeEntryModel.FieldID, timeEntryModel.TableName))
	if err != nil {
		return model.Data{}, fmt.Errorf("failed to get departure: %w", err)
	}

	route, err := s.routes.Get(ctx, shared.FilterByID(entry.RouteID, routeModel.FieldID, routeModel.TableName))
	if err != nil {
		return model.Data{}, fmt.Errorf("failed to get route: %w", err)
	}

	passengers, err := s.passengers.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByField(bookingModel.FieldBookingID, booking.ID, bookingModel.PassengerTableName))
	if err != nil {
		return model.Data{}, fmt.Errorf("failed to get passengers: %w", err)
	}

	names := make([]string, len(passengers))
	for i, p := range passengers {
		names[i] = p.FullName()
	}

	return model.Data{
		Airline:       s.cfg.App.Name,
		BookingRef:    booking.Ref,
		FlightNo:      entry.FlightNo,
		Passengers:    names,
		From:          route.FromLabel,
		To:            route.ToLabel,
		Date:          entry.Date,
		Start:         entry.Start,
		End:           entry.End,
		Pax:           booking.Pax,
		PaymentStatus: booking.PaymentStatus,
		GeneratedAt:   timezone.Now(),
	}, nil
}

func (s *serviceImpl) markFailed(ctx context.Context, booking bookingModel.Booking) {
	err := s.bookings.Update(ctx, map[string]any{
		bookingModel.FieldTicketStatus: bookingModel.TicketFailed,
		constant.FieldModifiedAt:       timezone.Now(),
	}, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_ref", booking.Ref).Msg("failed to mark ticket as failed")
	}
}

func (s *serviceImpl) Download(ctx context.Context, bookingRef string) (res dto.TicketFile, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.Download")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, bookingRef)
	if err != nil {
		return res, err
	}

	if shared.ActorRole(ctx) == constant.RoleCustomer && booking.UserID != shared.Actor(ctx) {
		return res, bookingModel.NotFound()
	}

	if booking.TicketStatus != bookingModel.TicketGenerated || booking.TicketObjectKey == nil {
		return res, failure.NotFound(model.EntityName)
	}

	data, err := s.s3.Get(ctx, *booking.TicketObjectKey)
	if err != nil {
		return res, fmt.Errorf("failed to read ticket: %w", err)
	}

	return dto.TicketFile{FileName: model.FileName(booking.Ref), ContentType: constant.ContentTypePDF, Data: data}, nil
}

func (s *serviceImpl) RetryPending(ctx context.Context, limit int) (generated int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.RetryPending")
	defer scope.End()
	defer scope.TraceIfError(&err)

	pending, err := s.bookings.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: limit}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field: bookingModel.FieldPaymentStatus, Operator: gDto.FilterOperatorEq,
				Value: bookingModel.PaymentPaid, Table: bookingModel.TableName,
			},
			gDto.Filter{
				Field: bookingModel.FieldTicketStatus, Operator: gDto.FilterOperatorIn,
				Value: []string{bookingModel.TicketNone, bookingModel.TicketFailed}, Table: bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings without tickets")

		return 0, fmt.Errorf("failed to get bookings without tickets: %w", err)
	}

	for _, booking := range pending {
		if _, err := s.generate(ctx, booking); err != nil {
			log.Warn().Err(err).Str("booking_ref", booking.Ref).Msg("ticket retry failed")

			continue
		}

		generated++
	}

	return generated, nil
}

func (s *serviceImpl) find(ctx context.Context, ref string) (bookingModel.Booking, error) {
	booking, err := s.bookings.Get(ctx, shared.FilterByField(bookingModel.FieldRef, ref, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, bookingModel.NotFound()
	}

	return booking, nil
}
