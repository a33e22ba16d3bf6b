package router

import (
	"charter/internal/handlers/audit"
	"charter/internal/handlers/auth"
	"charter/internal/handlers/booking"
	"charter/internal/handlers/payment"
	"charter/internal/handlers/pilot"
	"charter/internal/handlers/route"
	"charter/internal/handlers/settings"
	"charter/internal/handlers/slotrule"
	"charter/internal/handlers/ticket"
	"charter/internal/handlers/timeentry"
	"charter/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth      auth.Handler
	User      user.Handler
	Route     route.Handler
	SlotRule  slotrule.Handler
	TimeEntry timeentry.Handler
	Settings  settings.Handler
	Audit     audit.Handler
	Booking   booking.Handler
	Payment   payment.Handler
	Pilot     pilot.Handler
	Ticket    ticket.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Route.Router(routerGroup)
		r.DomainHandlers.SlotRule.Router(routerGroup)
		r.DomainHandlers.TimeEntry.Router(routerGroup)
		r.DomainHandlers.Settings.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Pilot.Router(routerGroup)
		r.DomainHandlers.Ticket.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
