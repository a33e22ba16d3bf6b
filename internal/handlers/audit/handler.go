package audit

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/audit/model"
	"charter/internal/domains/audit/service"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/audit-logs", handler.GetAuditLogs)
}

// GetAuditLogs
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param actor query string false "Filter by actor"
// @Param action query string false "Filter by action, e.g. booking.create"
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query string false "Filter by entity ID"
// @Success 200 {object} response.Data[dto.GetAuditLogsResponse]
// @Router /v1/audit-logs [get]
// @Security BearerAuth
func (handler *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAuditLogs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldActor:      query.Get(model.FieldActor),
		model.FieldAction:     query.Get(model.FieldAction),
		model.FieldEntityType: query.Get(model.FieldEntityType),
		model.FieldEntityID:   query.Get(model.FieldEntityID),
	})

	logs, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit logs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, logs)
}
