package slotrule

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/slotrule/model"
	"charter/internal/domains/slotrule/model/dto"
	"charter/internal/domains/slotrule/service"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/timezone"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.SlotRule
	otel    otel.Otel
}

func New(service service.SlotRule, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slot-rules", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSlotRule)
		routerGroup.Get("/", handler.GetSlotRules)
		routerGroup.Post("/generate", handler.Generate)
		routerGroup.Post("/weekly-plan", handler.ImportWeeklyPlan)
		routerGroup.Get("/{id}", handler.GetSlotRuleByID)
		routerGroup.Patch("/{id}", handler.UpdateSlotRule)
		routerGroup.Delete("/{id}", handler.DeleteSlotRule)
		routerGroup.Post("/{id}/run", handler.RunSlotRule)
	})
}

// CreateSlotRule
// @Summary Create a slot rule
// @Description Create a recurring schedule template. Weekdays are 0 (Monday) to 6, times are HH:MM.
// @Tags SlotRule
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRuleRequest true "Create Slot Rule Request"
// @Success 201 {object} response.Data[string] "ID of the created rule"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/slot-rules [post]
// @Security BearerAuth
func (handler *Handler) CreateSlotRule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlotRule")
	defer scope.End()

	req := dto.CreateSlotRuleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create slot rule")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, id)
}

// GetSlotRules
// @Summary List slot rules
// @Tags SlotRule
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param route_id query string false "Filter by route"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetSlotRulesResponse]
// @Router /v1/slot-rules [get]
// @Security BearerAuth
func (handler *Handler) GetSlotRules(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotRules")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldRouteID: r.URL.Query().Get(model.FieldRouteID),
	})

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	rules, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot rules")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rules)
}

// GetSlotRuleByID
// @Summary Get a slot rule
// @Tags SlotRule
// @Produce json
// @Param id path string true "Slot Rule ID"
// @Success 200 {object} response.Data[dto.SlotRuleResponse]
// @Failure 404 {object} response.Error
// @Router /v1/slot-rules/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetSlotRuleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotRuleByID")
	defer scope.End()

	rule, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot rule")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rule)
}

// UpdateSlotRule
// @Summary Update a slot rule
// @Description Changes apply to departures generated afterwards. Existing time entries are never rewritten.
// @Tags SlotRule
// @Accept json
// @Produce json
// @Param id path string true "Slot Rule ID"
// @Param request body dto.UpdateSlotRuleRequest true "Update Slot Rule Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/slot-rules/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSlotRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSlotRule")
	defer scope.End()

	req := dto.UpdateSlotRuleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update slot rule")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Slot rule updated successfully")
}

// DeleteSlotRule
// @Summary Delete a slot rule
// @Tags SlotRule
// @Produce json
// @Param id path string true "Slot Rule ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/slot-rules/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlotRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlotRule")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete slot rule")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Slot rule deleted successfully")
}

// Generate expands every active rule now instead of waiting for the worker.
// @Summary Generate departures from all rules
// @Tags SlotRule
// @Produce json
// @Success 200 {object} response.Data[dto.GenerateResult]
// @Failure 500 {object} response.Error
// @Router /v1/slot-rules/generate [post]
// @Security BearerAuth
func (handler *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Generate")
	defer scope.End()

	res, err := handler.service.Generate(ctx, timezone.Today())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate time entries")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RunSlotRule
// @Summary Generate departures from one rule
// @Tags SlotRule
// @Produce json
// @Param id path string true "Slot Rule ID"
// @Success 200 {object} response.Data[dto.GenerateResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/slot-rules/{id}/run [post]
// @Security BearerAuth
func (handler *Handler) RunSlotRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RunSlotRule")
	defer scope.End()

	res, err := handler.service.RunRule(ctx, chi.URLParam(r, constant.RequestParamID), timezone.Today())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run slot rule")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ImportWeeklyPlan
// @Summary Import a weekly flight plan
// @Description Create the routes and departures of one week from explicit legs or a preset plan. Existing departures are kept.
// @Tags SlotRule
// @Accept json
// @Produce json
// @Param request body dto.ImportWeeklyPlanRequest true "Weekly Plan"
// @Success 200 {object} response.Data[dto.ImportWeeklyPlanResponse]
// @Failure 400 {object} response.Error
// @Router /v1/slot-rules/weekly-plan [post]
// @Security BearerAuth
func (handler *Handler) ImportWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ImportWeeklyPlan")
	defer scope.End()

	req := dto.ImportWeeklyPlanRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ImportWeeklyPlan(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to import weekly plan")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
