package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"charter/config"
	"charter/infras/gateway"
	"charter/infras/kafka"
	"charter/infras/otel"
	auditModel "charter/internal/domains/audit/model"
	auditDto "charter/internal/domains/audit/model/dto"
	auditService "charter/internal/domains/audit/service"
	bookingModel "charter/internal/domains/booking/model"
	bookingRepo "charter/internal/domains/booking/repository"
	"charter/internal/domains/payment/model"
	"charter/internal/domains/payment/model/dto"
	"charter/internal/domains/payment/repository"
	pilotDto "charter/internal/domains/pilot/model/dto"
	pilotService "charter/internal/domains/pilot/service"
	timeEntryRepo "charter/internal/domains/timeentry/repository"
	timeEntryService "charter/internal/domains/timeentry/service"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	gModel "charter/shared/model"
	gRepo "charter/shared/repository"
	"charter/shared/signature"
	"charter/shared/timezone"
	"charter/shared/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	// ConfirmPaid is the only way a booking becomes paid. Replays of the same settlement are no-ops.
	ConfirmPaid(ctx context.Context, settlement model.Settlement) (dto.ConfirmResponse, error)
	// MarkFailed records a failed attempt. Seats stay held until the hold is swept or paid.
	MarkFailed(ctx context.Context, ref, provider, providerRef, reason string) error
	CardSale(ctx context.Context, ref string, req dto.CardSaleRequest) (dto.ConfirmResponse, error)
	HandleWebhook(ctx context.Context, req dto.WebhookRequest) error
	MarkPaid(ctx context.Context, ref string, req dto.MarkPaidRequest) (dto.ConfirmResponse, error)
	Refund(ctx context.Context, ref string, req dto.RefundRequest) error
	GetPayments(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
}

type serviceImpl struct {
	repo      repository.Payment
	bookings  bookingRepo.Booking
	timeEntry timeEntryRepo.TimeEntry
	tx        gRepo.Transactor
	gateway   gateway.Gateway
	kafka     kafka.Client
	pilot     pilotService.Pilot
	audit     auditService.Audit
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Payment,
	bookings bookingRepo.Booking,
	timeEntry timeEntryRepo.TimeEntry,
	tx gRepo.Transactor,
	gateway gateway.Gateway,
	kafka kafka.Client,
	pilot pilotService.Pilot,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:      repo,
		bookings:  bookings,
		timeEntry: timeEntry,
		tx:        tx,
		gateway:   gateway,
		kafka:     kafka,
		pilot:     pilot,
		audit:     audit,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) ConfirmPaid(ctx context.Context, settlement model.Settlement) (res dto.ConfirmResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.ConfirmPaid")
	defer scope.End()
	defer scope.TraceIfError(&err)

	var (
		booking bookingModel.Booking
		already bool
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err = s.lock(ctx, tx, settlement.BookingRef)
		if err != nil {
			return err
		}

		if paid(booking) {
			already = true

			return nil
		}

		if booking.HoldLapsed(timezone.Now()) {
			return bookingModel.HoldExpired()
		}

		if err = booking.Transition(bookingModel.StatusConfirmed, bookingModel.PaymentPaid); err != nil {
			return failure.Wrap(http.StatusConflict, err)
		}

		if err = s.setStatus(ctx, tx, booking); err != nil {
			return err
		}

		if settlement.AmountUSD == 0 && settlement.AmountTZS == 0 {
			settlement.AmountUSD, settlement.AmountTZS = booking.TotalUSD, booking.TotalTZS
		}

		if err = s.upsertPayment(ctx, tx, booking, settlement, model.StatusPaid); err != nil {
			return err
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "payment.confirm",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details: map[string]any{
				"provider": settlement.Provider, "provider_ref": settlement.ProviderRef,
				"amount_usd": settlement.AmountUSD, "amount_tzs": settlement.AmountTZS,
			},
		})
	})
	if err != nil {
		return res, err
	}

	res = dto.ConfirmResponse{
		BookingRef:    booking.Ref,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		AlreadyPaid:   already,
	}

	if already {
		log.Info().Str("booking_ref", booking.Ref).Str("provider", settlement.Provider).Msg("booking already paid, ignoring settlement")

		return res, nil
	}

	log.Info().Str("booking_ref", booking.Ref).Str("provider", settlement.Provider).Msg("booking confirmed")

	s.publishConfirmed(ctx, booking, settlement.Provider)

	return res, nil
}

func paid(booking bookingModel.Booking) bool {
	return booking.PaymentStatus == bookingModel.PaymentPaid &&
		(booking.Status == bookingModel.StatusConfirmed || booking.Status == bookingModel.StatusCompleted)
}

func (s *serviceImpl) publishConfirmed(ctx context.Context, booking bookingModel.Booking, provider string) {
	event := model.BookingConfirmed{
		BookingID:   booking.ID,
		BookingRef:  booking.Ref,
		TimeEntryID: booking.TimeEntryID,
		Provider:    provider,
		ConfirmedAt: timezone.Now(),
	}

	go func(ctx context.Context) {
		err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.BookingConfirmed, kafka.Message{Key: event.BookingRef, Value: event})
		if err != nil {
			log.Error().Err(err).Str("booking_ref", event.BookingRef).Msg("failed to publish booking confirmation")
		}
	}(context.WithoutCancel(ctx))
}

func (s *serviceImpl) upsertPayment(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking, settlement model.Settlement, status string) error {
	current, err := s.repo.GetForUpdate(ctx, tx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: booking.ID, Table: model.TableName},
			gDto.Filter{Field: model.FieldProvider, Operator: gDto.FilterOperatorEq, Value: settlement.Provider, Table: model.TableName},
		},
	})
	if err != nil {
		return err
	}

	currency := settlement.Currency
	if currency == constant.Empty {
		currency = model.CurrencyUSD
	}

	if current.ID != constant.Empty {
		err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        status,
			model.FieldProviderRef:   settlement.ProviderRef,
			model.FieldAmountUSD:     settlement.AmountUSD,
			model.FieldAmountTZS:     settlement.AmountTZS,
			model.FieldCurrency:      currency,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: shared.Actor(ctx),
		}, shared.FilterByID(current.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to update payment")

			return fmt.Errorf("failed to update payment: %w", err)
		}

		return nil
	}

	err = s.repo.InsertTx(ctx, tx, model.Payment{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		Provider:    settlement.Provider,
		AmountUSD:   settlement.AmountUSD,
		AmountTZS:   settlement.AmountTZS,
		Currency:    currency,
		Status:      status,
		ProviderRef: settlement.ProviderRef,
		Metadata:    gModel.NewMetadata(timezone.Now(), shared.Actor(ctx)),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to insert payment")

		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (s *serviceImpl) MarkFailed(ctx context.Context, ref, provider, providerRef, reason string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.MarkFailed")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}

		if paid(booking) {
			log.Warn().Str("booking_ref", ref).Str("provider", provider).Msg("ignoring payment failure for a paid booking")

			return nil
		}

		if booking.Status == bookingModel.StatusPaymentFailed {
			return nil
		}

		if !booking.HoldsSeats() {
			log.Warn().Str("booking_ref", ref).Str("status", booking.Status).Str("provider", provider).
				Msg("ignoring payment failure for a closed booking")

			return nil
		}

		if err = booking.Transition(bookingModel.StatusPaymentFailed, bookingModel.PaymentFailed); err != nil {
			return failure.Wrap(http.StatusConflict, err)
		}

		if err = s.setStatus(ctx, tx, booking); err != nil {
			return err
		}

		settlement := model.Settlement{BookingRef: ref, Provider: provider, ProviderRef: providerRef, AmountUSD: booking.TotalUSD, AmountTZS: booking.TotalTZS}
		if err = s.upsertPayment(ctx, tx, booking, settlement, model.StatusFailed); err != nil {
			return err
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "payment.failed",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details:    map[string]any{"provider": provider, "provider_ref": providerRef, "reason": reason},
		})
	})
}

func (s *serviceImpl) CardSale(ctx context.Context, ref string, req dto.CardSaleRequest) (res dto.ConfirmResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.CardSale")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, ref)
	if err != nil {
		return res, err
	}

	if paid(booking) {
		return dto.ConfirmResponse{BookingRef: ref, Status: booking.Status, PaymentStatus: booking.PaymentStatus, AlreadyPaid: true}, nil
	}

	if booking.HoldLapsed(timezone.Now()) {
		return res, bookingModel.HoldExpired()
	}

	if booking.Status != bookingModel.StatusPendingPayment && booking.Status != bookingModel.StatusPaymentFailed {
		return res, failure.Conflict("booking in status " + booking.Status + " cannot be paid")
	}

	result, err := s.gateway.Sale(ctx, gateway.SaleRequest{
		ClientRef:      ref,
		Amount:         amount(booking.TotalUSD),
		Currency:       model.CurrencyUSD,
		TransientToken: req.TransientToken,
	})
	if err != nil {
		log.Error().Err(err).Str("booking_ref", ref).Msg("card sale did not reach the gateway")

		return res, model.GatewayError()
	}

	if !result.Approved {
		if err = s.MarkFailed(ctx, ref, model.ProviderCybersource, result.ID, result.Reason); err != nil {
			return res, err
		}

		log.Info().Str("booking_ref", ref).Str("reason", result.Reason).Msg("card sale declined")

		return dto.ConfirmResponse{BookingRef: ref, Status: bookingModel.StatusPaymentFailed, PaymentStatus: bookingModel.PaymentFailed},
			model.Declined(result.Reason)
	}

	return s.ConfirmPaid(ctx, model.Settlement{
		BookingRef:  ref,
		Provider:    model.ProviderCybersource,
		ProviderRef: result.ID,
		AmountUSD:   booking.TotalUSD,
		AmountTZS:   booking.TotalTZS,
		Currency:    model.CurrencyUSD,
	})
}

func amount(usd int) string {
	return fmt.Sprintf("%d.00", usd)
}

func (s *serviceImpl) HandleWebhook(ctx context.Context, req dto.WebhookRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.HandleWebhook")
	defer scope.End()
	defer scope.TraceIfError(&err)

	secret := s.cfg.External.Payment.WebhookSecret
	if secret == constant.Empty {
		return failure.ServiceUnavailable("payment webhook is not configured")
	}

	err = signature.Verify([]byte(secret), signature.SigningInput{
		Method:     req.Method,
		Path:       req.Path,
		Host:       req.Host,
		Date:       req.Date,
		Digest:     req.Digest,
		MerchantID: req.MerchantID,
	}, req.Body, req.Signature)
	if err != nil {
		log.Warn().Err(err).Str("path", req.Path).Msg("rejected payment webhook")

		return failure.Unauthorized("invalid webhook signature")
	}

	var event dto.WebhookEvent
	if err = validator.Validate(bytes.NewReader(req.Body), &event); err != nil {
		return err
	}

	scope.SetAttribute("booking_ref", event.BookingRef)

	switch {
	case event.Succeeded():
		_, err = s.ConfirmPaid(ctx, event.Settlement())

		return err
	case event.Failed():
		return s.MarkFailed(ctx, event.BookingRef, event.Provider, event.ProviderRef, event.Reason)
	default:
		log.Info().Str("booking_ref", event.BookingRef).Str("status", event.Status).Msg("ignoring webhook status")

		return nil
	}
}

func (s *serviceImpl) MarkPaid(ctx context.Context, ref string, req dto.MarkPaidRequest) (res dto.ConfirmResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.MarkPaid")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, ref)
	if err != nil {
		return res, err
	}

	// Assign first so the confirmation event already sees the pilot.
	if req.PilotEmail != constant.Empty {
		_, err = s.pilot.Assign(ctx, pilotDto.AssignPilotRequest{TimeEntryID: booking.TimeEntryID, PilotEmail: req.PilotEmail})
		if err != nil {
			return res, err
		}
	}

	return s.ConfirmPaid(ctx, model.Settlement{
		BookingRef:  ref,
		Provider:    model.ProviderManual,
		ProviderRef: model.ProviderManual + ":" + shared.Actor(ctx),
		AmountUSD:   booking.TotalUSD,
		AmountTZS:   booking.TotalTZS,
		Currency:    booking.Currency,
	})
}

func (s *serviceImpl) Refund(ctx context.Context, ref string, req dto.RefundRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Refund")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, ref)
	if err != nil {
		return err
	}

	if booking.PaymentStatus != bookingModel.PaymentPaid {
		return failure.Conflict("only paid bookings can be refunded")
	}

	if !bookingModel.CanTransition(booking.Status, bookingModel.StatusCancelled) {
		return failure.Conflict("booking in status " + booking.Status + " cannot be refunded")
	}

	refund := req.AmountUSD
	if refund == 0 {
		refund = booking.TotalUSD
	}

	if refund < 0 || refund > booking.TotalUSD {
		return failure.BadRequestFromString("refund amount must be between 0 and the booking total")
	}

	payment, err := s.repo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: booking.ID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusPaid, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.Provider == model.ProviderCybersource && payment.ProviderRef != constant.Empty {
		if err = s.refundAtGateway(ctx, ref, payment.ProviderRef, refund); err != nil {
			return err
		}
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}

		if booking.PaymentStatus != bookingModel.PaymentPaid {
			return failure.Conflict("only paid bookings can be refunded")
		}

		held := booking.HoldsSeats()

		if err = booking.Transition(bookingModel.StatusCancelled, bookingModel.PaymentRefunded); err != nil {
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

		if payment.ID != constant.Empty {
			err = s.repo.UpdateTx(ctx, tx, map[string]any{
				model.FieldStatus:        model.StatusRefunded,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: shared.Actor(ctx),
			}, shared.FilterByID(payment.ID, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to refund payment")

				return fmt.Errorf("failed to refund payment: %w", err)
			}
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "payment.refund",
			EntityType: auditModel.EntityBooking,
			EntityID:   booking.ID,
			Details:    map[string]any{"amount_usd": refund, "payment_id": payment.ID},
		})
	})
	if err != nil {
		return err
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, timeEntryService.CacheAvailability)

	return nil
}

func (s *serviceImpl) refundAtGateway(ctx context.Context, ref, paymentID string, usd int) error {
	result, err := s.gateway.Refund(ctx, paymentID, gateway.RefundRequest{
		ClientRef: ref,
		Amount:    amount(usd),
		Currency:  model.CurrencyUSD,
	})
	if err != nil {
		log.Error().Err(err).Str("booking_ref", ref).Msg("refund did not reach the gateway")

		return model.GatewayError()
	}

	if !result.Approved {
		log.Warn().Str("booking_ref", ref).Str("reason", result.Reason).Msg("gateway refused the refund")

		return failure.BadGateway("refund was not accepted by the gateway: " + result.Reason)
	}

	return nil
}

func (s *serviceImpl) GetPayments(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.GetPayments")
	defer scope.End()
	defer scope.TraceIfError(&err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) setStatus(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) error {
	err := s.bookings.UpdateTx(ctx, tx, map[string]any{
		bookingModel.FieldStatus:        booking.Status,
		bookingModel.FieldPaymentStatus: booking.PaymentStatus,
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        shared.Actor(ctx),
	}, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_ref", booking.Ref).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil
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

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, ref string) (bookingModel.Booking, error) {
	booking, err := s.bookings.GetForUpdate(ctx, tx, shared.FilterByField(bookingModel.FieldRef, ref, bookingModel.TableName))
	if err != nil {
		return booking, err
	}

	if booking.ID == constant.Empty {
		return booking, bookingModel.NotFound()
	}

	return booking, nil
}
