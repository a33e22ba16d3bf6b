package ticket

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/ticket/service"
	"charter/shared/constant"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ticket
	otel    otel.Otel
}

func New(service service.Ticket, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tickets", func(routerGroup chi.Router) {
		routerGroup.Get("/{ref}", handler.DownloadTicket)
		routerGroup.Post("/{ref}", handler.GenerateTicket)
	})
}

// DownloadTicket streams the stored PDF ticket.
// @Summary Download a ticket
// @Tags Ticket
// @Produce application/pdf
// @Param ref path string true "Booking reference"
// @Success 200 {file} file
// @Failure 404 {object} response.Error
// @Router /v1/tickets/{ref} [get]
// @Security BearerAuth
func (handler *Handler) DownloadTicket(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DownloadTicket")
	defer scope.End()

	file, err := handler.service.Download(ctx, chi.URLParam(r, constant.RequestParamRef))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to download ticket")

		response.WithError(w, err)

		return
	}

	response.WithFile(w, file.ContentType, file.FileName, file.Data)
}

// GenerateTicket renders the ticket now instead of waiting for the worker.
// @Summary Generate a ticket
// @Tags Ticket
// @Produce json
// @Param ref path string true "Booking reference"
// @Success 200 {object} response.Data[dto.TicketResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Booking is not paid"
// @Router /v1/tickets/{ref} [post]
// @Security BearerAuth
func (handler *Handler) GenerateTicket(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GenerateTicket")
	defer scope.End()

	res, err := handler.service.Generate(ctx, chi.URLParam(r, constant.RequestParamRef))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate ticket")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
