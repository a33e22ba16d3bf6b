package pilot

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/pilot/model"
	"charter/internal/domains/pilot/model/dto"
	"charter/internal/domains/pilot/service"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Pilot
	otel    otel.Otel
}

func New(service service.Pilot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/pilot-assignments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.AssignPilot)
		routerGroup.Get("/", handler.GetAssignments)
		routerGroup.Get("/mine", handler.GetMyAssignments)
		routerGroup.Post("/{id}/accept", handler.AcceptAssignment)
	})

	router.Post("/flights/{ref}/complete", handler.CompleteFlight)
}

// AssignPilot
// @Summary Assign a pilot to a departure
// @Description Assigning the same pilot twice returns the existing assignment.
// @Tags Pilot
// @Accept json
// @Produce json
// @Param request body dto.AssignPilotRequest true "Assign Pilot Request"
// @Success 200 {object} response.Data[dto.AssignmentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/pilot-assignments [post]
// @Security BearerAuth
func (handler *Handler) AssignPilot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignPilot")
	defer scope.End()

	req := dto.AssignPilotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Assign(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign pilot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetAssignments
// @Summary List pilot assignments
// @Tags Pilot
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param time_entry_id query string false "Filter by departure"
// @Param pilot_user_id query string false "Filter by pilot"
// @Param status query string false "Filter by status (assigned, accepted, completed)"
// @Success 200 {object} response.Data[dto.GetAssignmentsResponse]
// @Router /v1/pilot-assignments [get]
// @Security BearerAuth
func (handler *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAssignments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldTimeEntryID: query.Get(model.FieldTimeEntryID),
		model.FieldPilotUserID: query.Get(model.FieldPilotUserID),
		model.FieldStatus:      query.Get(model.FieldStatus),
	})

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pilot assignments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetMyAssignments
// @Summary List own assignments
// @Tags Pilot
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetAssignmentsResponse]
// @Router /v1/pilot-assignments/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyAssignments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own assignments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// AcceptAssignment
// @Summary Accept an assignment
// @Tags Pilot
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Data[dto.AssignmentResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pilot-assignments/{id}/accept [post]
// @Security BearerAuth
func (handler *Handler) AcceptAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AcceptAssignment")
	defer scope.End()

	res, err := handler.service.Accept(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to accept assignment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CompleteFlight marks a confirmed booking as flown.
// @Summary Complete a flight
// @Tags Pilot
// @Produce json
// @Param ref path string true "Booking reference"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/flights/{ref}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteFlight(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteFlight")
	defer scope.End()

	if err := handler.service.Complete(ctx, chi.URLParam(r, constant.RequestParamRef)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete flight")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Flight completed")
}
