package timeentry

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/timeentry/model"
	"charter/internal/domains/timeentry/model/dto"
	"charter/internal/domains/timeentry/service"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryRouteID = "route_id"
	queryDate    = "date"
)

type Handler struct {
	service service.TimeEntry
	otel    otel.Otel
}

func New(service service.TimeEntry, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.GetAvailability)

	router.Route("/time-entries", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTimeEntry)
		routerGroup.Get("/", handler.GetTimeEntries)
		routerGroup.Get("/{id}", handler.GetTimeEntryByID)
		routerGroup.Patch("/{id}", handler.UpdateTimeEntry)
		routerGroup.Delete("/{id}", handler.DeleteTimeEntry)
	})
}

// GetAvailability lists the published, public departures of a route on a date.
// @Summary Seat availability
// @Tags TimeEntry
// @Produce json
// @Param route_id query string true "Route ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	res, err := handler.service.Availability(ctx, r.URL.Query().Get(queryRouteID), r.URL.Query().Get(queryDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateTimeEntry adds a single departure by hand.
// @Summary Create a departure
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param request body dto.CreateTimeEntryRequest true "Create Time Entry Request"
// @Success 201 {object} response.Data[string] "ID of the created departure"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "A departure already exists at that route, date and time"
// @Router /v1/time-entries [post]
// @Security BearerAuth
func (handler *Handler) CreateTimeEntry(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTimeEntry")
	defer scope.End()

	req := dto.CreateTimeEntryRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create time entry")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, id)
}

// GetTimeEntries
// @Summary List departures
// @Tags TimeEntry
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param route_id query string false "Filter by route"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param status query string false "Filter by status (DRAFT, PUBLISHED, CLOSED)"
// @Param visibility query string false "Filter by visibility (PUBLIC, HIDDEN)"
// @Success 200 {object} response.Data[dto.GetTimeEntriesResponse]
// @Router /v1/time-entries [get]
// @Security BearerAuth
func (handler *Handler) GetTimeEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeEntries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldRouteID:    query.Get(queryRouteID),
		model.FieldDate:       query.Get(queryDate),
		model.FieldStatus:     query.Get(model.FieldStatus),
		model.FieldVisibility: query.Get(model.FieldVisibility),
	})

	entries, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time entries")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, entries)
}

// GetTimeEntryByID
// @Summary Get a departure
// @Tags TimeEntry
// @Produce json
// @Param id path string true "Time Entry ID"
// @Success 200 {object} response.Data[dto.TimeEntryResponse]
// @Failure 404 {object} response.Error
// @Router /v1/time-entries/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTimeEntryByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeEntryByID")
	defer scope.End()

	entry, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time entry")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, entry)
}

// UpdateTimeEntry
// @Summary Update a departure
// @Description Change prices, visibility, status or capacity. Capacity never drops below the seats already booked.
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param id path string true "Time Entry ID"
// @Param request body dto.UpdateTimeEntryRequest true "Update Time Entry Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/time-entries/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTimeEntry")
	defer scope.End()

	req := dto.UpdateTimeEntryRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update time entry")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Time entry updated successfully")
}

// DeleteTimeEntry
// @Summary Delete a departure
// @Description Refused while bookings reference the departure.
// @Tags TimeEntry
// @Produce json
// @Param id path string true "Time Entry ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/time-entries/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTimeEntry")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete time entry")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Time entry deleted successfully")
}
