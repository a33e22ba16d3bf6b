package settings

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/settings/model/dto"
	"charter/internal/domains/settings/service"
	"charter/shared/constant"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Settings
	otel    otel.Otel
}

func New(service service.Settings, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/settings", func(routerGroup chi.Router) {
		routerGroup.Get("/fx-rate", handler.GetFXRate)
		routerGroup.Put("/fx-rate", handler.SetFXRate)
		routerGroup.Get("/terms", handler.GetTerms)
		routerGroup.Put("/terms", handler.SetTerms)
	})
}

// GetFXRate
// @Summary Current USD to TZS rate
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.FXRateResponse]
// @Router /v1/settings/fx-rate [get]
func (handler *Handler) GetFXRate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFXRate")
	defer scope.End()

	rate, err := handler.service.GetFXRate(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get fx rate")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.USDToTZS(rate))
}

// SetFXRate
// @Summary Set the USD to TZS rate
// @Description Applies to prices computed afterwards. Existing bookings keep the rate they were priced with.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.SetFXRateRequest true "FX Rate"
// @Success 200 {object} response.Data[dto.FXRateResponse]
// @Failure 400 {object} response.Error
// @Router /v1/settings/fx-rate [put]
// @Security BearerAuth
func (handler *Handler) SetFXRate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetFXRate")
	defer scope.End()

	req := dto.SetFXRateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.SetFXRate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set fx rate")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetTerms
// @Summary Current terms and conditions
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.TermsResponse]
// @Router /v1/settings/terms [get]
func (handler *Handler) GetTerms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTerms")
	defer scope.End()

	res, err := handler.service.GetTerms(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get terms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// SetTerms
// @Summary Publish terms and conditions
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.SetTermsRequest true "Terms"
// @Success 200 {object} response.Data[dto.TermsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/settings/terms [put]
// @Security BearerAuth
func (handler *Handler) SetTerms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetTerms")
	defer scope.End()

	req := dto.SetTermsRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.SetTerms(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set terms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
