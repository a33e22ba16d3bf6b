package booking

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/booking/model"
	"charter/internal/domains/booking/model/dto"
	"charter/internal/domains/booking/service"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/{ref}", handler.GetBooking)
		routerGroup.Post("/{ref}/move", handler.MoveBooking)
		routerGroup.Post("/{ref}/cancel", handler.CancelBooking)
		routerGroup.Post("/{ref}/cancellation-requests", handler.RequestCancellation)
	})

	router.Get("/cancellations", handler.GetCancellations)
}

// CreateBooking holds seats on a departure and opens an unpaid booking.
// @Summary Create a booking
// @Description Reserve pax seats and open a PENDING_PAYMENT booking that holds them until hold_expires_at. Anonymous bookers pass booker_email.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Not enough seats or departure not bookable"
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("time_entry_id", req.TimeEntryID).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + res.Ref + " created")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookings
// @Summary List bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param time_entry_id query string false "Filter by departure"
// @Param status query string false "Filter by status"
// @Param payment_status query string false "Filter by payment status"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldTimeEntryID:   query.Get(model.FieldTimeEntryID),
		model.FieldStatus:        query.Get(model.FieldStatus),
		model.FieldPaymentStatus: query.Get(model.FieldPaymentStatus),
	})

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings
// @Summary List own bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBooking looks a booking up by its reference.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param ref path string true "Booking reference"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{ref} [get]
func (handler *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooking")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamRef))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// MoveBooking
// @Summary Move a booking to another departure
// @Description Target is a time entry ID or "YYYY-MM-DD HH:MM" on the same route. Seats move in one transaction and the status is unchanged.
// @Tags Booking
// @Accept json
// @Produce json
// @Param ref path string true "Booking reference"
// @Param request body dto.MoveBookingRequest true "Move Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{ref}/move [post]
// @Security BearerAuth
func (handler *Handler) MoveBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MoveBooking")
	defer scope.End()

	req := dto.MoveBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Move(ctx, chi.URLParam(r, constant.RequestParamRef), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to move booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CancelBooking
// @Summary Cancel a booking
// @Description Releases held seats. A refund amount above zero marks a paid booking as refunded.
// @Tags Booking
// @Accept json
// @Produce json
// @Param ref path string true "Booking reference"
// @Param request body dto.CancelBookingRequest true "Cancel Booking Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{ref}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	req := dto.CancelBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamRef), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

// RequestCancellation
// @Summary Ask ops to cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param ref path string true "Booking reference"
// @Param request body dto.RequestCancellationRequest true "Cancellation Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{ref}/cancellation-requests [post]
// @Security BearerAuth
func (handler *Handler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestCancellation")
	defer scope.End()

	req := dto.RequestCancellationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.RequestCancellation(ctx, chi.URLParam(r, constant.RequestParamRef), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to request cancellation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusCreated, "Cancellation requested")
}

// GetCancellations
// @Summary List cancellation requests
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (requested, approved, rejected)"
// @Success 200 {object} response.Data[dto.GetCancellationsResponse]
// @Router /v1/cancellations [get]
// @Security BearerAuth
func (handler *Handler) GetCancellations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCancellations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.service.GetCancellations(ctx, queryParams, r.URL.Query().Get(model.FieldStatus))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get cancellations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
