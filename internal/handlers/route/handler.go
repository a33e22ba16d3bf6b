package route

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/route/model"
	"charter/internal/domains/route/model/dto"
	"charter/internal/domains/route/service"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Route
	otel    otel.Otel
}

func New(service service.Route, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/routes", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoute)
		routerGroup.Get("/", handler.GetRoutes)
		routerGroup.Get("/{id}", handler.GetRouteByID)
		routerGroup.Patch("/{id}", handler.UpdateRoute)
		routerGroup.Delete("/{id}", handler.DeleteRoute)
	})
}

// CreateRoute
// @Summary Create a route
// @Description Create an origin/destination pair. The main region is derived from the labels when omitted.
// @Tags Route
// @Accept json
// @Produce json
// @Param request body dto.CreateRouteRequest true "Create Route Request"
// @Success 201 {object} response.Data[string] "ID of the created route"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/routes [post]
// @Security BearerAuth
func (handler *Handler) CreateRoute(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoute")
	defer scope.End()

	req := dto.CreateRouteRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create route")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, id)
}

// GetRoutes
// @Summary List routes
// @Tags Route
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param from_label query string false "Filter by origin label"
// @Param to_label query string false "Filter by destination label"
// @Param main_region query string false "Filter by main region (DAR, ZANZIBAR, MAINLAND)"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetRoutesResponse]
// @Failure 500 {object} response.Error
// @Router /v1/routes [get]
func (handler *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoutes")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldMainRegion: r.URL.Query().Get(model.FieldMainRegion),
	})

	for _, field := range []string{model.FieldFromLabel, model.FieldToLabel} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	routes, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get routes")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, routes)
}

// GetRouteByID
// @Summary Get a route
// @Tags Route
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} response.Data[dto.RouteResponse]
// @Failure 404 {object} response.Error
// @Router /v1/routes/{id} [get]
func (handler *Handler) GetRouteByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRouteByID")
	defer scope.End()

	route, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get route by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, route)
}

// UpdateRoute
// @Summary Update a route
// @Tags Route
// @Accept json
// @Produce json
// @Param id path string true "Route ID"
// @Param request body dto.UpdateRouteRequest true "Update Route Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/routes/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoute")
	defer scope.End()

	req := dto.UpdateRouteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update route")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Route updated successfully")
}

// DeleteRoute removes an unused route. A route that still has schedule rows is deactivated instead.
// @Summary Delete or deactivate a route
// @Tags Route
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/routes/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoute")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete route")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Route removed successfully")
}
