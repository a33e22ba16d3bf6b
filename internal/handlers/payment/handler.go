package payment

import (
	"fmt"
	"io"
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/payment/model"
	"charter/internal/domains/payment/model/dto"
	"charter/internal/domains/payment/service"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxWebhookBody bounds the notice a provider may post.
const maxWebhookBody = 64 << 10

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPayments)
		routerGroup.Post("/webhook", handler.Webhook)
		routerGroup.Post("/{ref}/card", handler.CardSale)
		routerGroup.Post("/{ref}/mark-paid", handler.MarkPaid)
		routerGroup.Post("/{ref}/refund", handler.Refund)
	})
}

// CardSale charges a tokenized card for the booking total.
// @Summary Pay a booking by card
// @Description Synchronous card sale. An approved sale confirms the booking, a declined one marks it PAYMENT_FAILED and keeps the seats held.
// @Tags Payment
// @Accept json
// @Produce json
// @Param ref path string true "Booking reference"
// @Param request body dto.CardSaleRequest true "Card Sale Request"
// @Success 200 {object} response.Data[dto.ConfirmResponse]
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error "Card declined"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 410 {object} response.Error "Hold expired"
// @Failure 502 {object} response.Error "Gateway unavailable"
// @Router /v1/payments/{ref}/card [post]
func (handler *Handler) CardSale(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CardSale")
	defer scope.End()

	req := dto.CardSaleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	ref := chi.URLParam(r, constant.RequestParamRef)

	res, err := handler.service.CardSale(ctx, ref, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_ref", ref).Msg("card sale failed")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Webhook receives signed settlement notices from payment providers.
// @Summary Payment provider webhook
// @Description HMAC signed notice. Replays of the same settlement are acknowledged without changes.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.WebhookEvent true "Settlement notice"
// @Param Signature header string true "keyid=...,algorithm=HmacSHA256,headers=...,signature=..."
// @Param Digest header string true "SHA-256=<base64>"
// @Param Date header string true "RFC1123 date"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error "Signature mismatch"
// @Failure 410 {object} response.Error
// @Failure 503 {object} response.Error "Webhook secret not configured"
// @Router /v1/payments/webhook [post]
func (handler *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Webhook")
	defer scope.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		err = failure.BadRequest(fmt.Errorf("failed to read webhook body: %w", err))
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	err = handler.service.HandleWebhook(ctx, dto.WebhookRequest{
		Method:     r.Method,
		Path:       r.URL.Path,
		Host:       r.Host,
		Date:       r.Header.Get(constant.RequestHeaderDate),
		Digest:     r.Header.Get(constant.RequestHeaderDigest),
		MerchantID: r.Header.Get(constant.RequestHeaderMerchantID),
		Signature:  r.Header.Get(constant.RequestHeaderSignature),
		Body:       body,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to handle payment webhook")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Webhook processed")
}

// MarkPaid records an offline payment and optionally assigns the pilot of the departure.
// @Summary Mark a booking as paid
// @Tags Payment
// @Accept json
// @Produce json
// @Param ref path string true "Booking reference"
// @Param request body dto.MarkPaidRequest false "Mark Paid Request"
// @Success 200 {object} response.Data[dto.ConfirmResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 410 {object} response.Error
// @Router /v1/payments/{ref}/mark-paid [post]
// @Security BearerAuth
func (handler *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkPaid")
	defer scope.End()

	req := dto.MarkPaidRequest{}
	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	res, err := handler.service.MarkPaid(ctx, chi.URLParam(r, constant.RequestParamRef), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark booking as paid")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Refund
// @Summary Refund a paid booking
// @Description Refunds at the card gateway when the booking was paid by card, then cancels the booking and releases its seats.
// @Tags Payment
// @Accept json
// @Produce json
// @Param ref path string true "Booking reference"
// @Param request body dto.RefundRequest true "Refund Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/{ref}/refund [post]
// @Security BearerAuth
func (handler *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Refund")
	defer scope.End()

	req := dto.RefundRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Refund(ctx, chi.URLParam(r, constant.RequestParamRef), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refund booking")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking refunded")
}

// GetPayments
// @Summary List payments
// @Tags Payment
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param booking_id query string false "Filter by booking"
// @Param provider query string false "Filter by provider"
// @Param status query string false "Filter by status (pending, paid, failed, refunded)"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse]
// @Router /v1/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldBookingID: query.Get(model.FieldBookingID),
		model.FieldProvider:  query.Get(model.FieldProvider),
		model.FieldStatus:    query.Get(model.FieldStatus),
	})

	res, err := handler.service.GetPayments(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
