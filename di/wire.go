//go:build wireinject
// +build wireinject

package di

import (
	"charter/config"
	"charter/infras/gateway"
	"charter/infras/jwt"
	"charter/infras/kafka"
	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/infras/redis"
	"charter/infras/s3"
	"charter/permissions"
	"charter/shared/cache"
	gRepo "charter/shared/repository"
	"charter/transport/http"
	"charter/transport/http/middleware"
	"charter/transport/http/router"
	"charter/transport/worker"

	"github.com/google/wire"

	auditRepository "charter/internal/domains/audit/repository"
	auditService "charter/internal/domains/audit/service"
	authService "charter/internal/domains/auth/service"
	bookingRepository "charter/internal/domains/booking/repository"
	bookingService "charter/internal/domains/booking/service"
	paymentRepository "charter/internal/domains/payment/repository"
	paymentService "charter/internal/domains/payment/service"
	pilotRepository "charter/internal/domains/pilot/repository"
	pilotService "charter/internal/domains/pilot/service"
	routeRepository "charter/internal/domains/route/repository"
	routeService "charter/internal/domains/route/service"
	settingsRepository "charter/internal/domains/settings/repository"
	settingsService "charter/internal/domains/settings/service"
	slotRuleRepository "charter/internal/domains/slotrule/repository"
	slotRuleService "charter/internal/domains/slotrule/service"
	ticketService "charter/internal/domains/ticket/service"
	timeEntryRepository "charter/internal/domains/timeentry/repository"
	timeEntryService "charter/internal/domains/timeentry/service"
	userRepository "charter/internal/domains/user/repository"
	userService "charter/internal/domains/user/service"

	auditHandler "charter/internal/handlers/audit"
	authHandler "charter/internal/handlers/auth"
	bookingHandler "charter/internal/handlers/booking"
	paymentHandler "charter/internal/handlers/payment"
	pilotHandler "charter/internal/handlers/pilot"
	routeHandler "charter/internal/handlers/route"
	settingsHandler "charter/internal/handlers/settings"
	slotRuleHandler "charter/internal/handlers/slotrule"
	ticketHandler "charter/internal/handlers/ticket"
	timeEntryHandler "charter/internal/handlers/timeentry"
	userHandler "charter/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	gateway.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var catalogDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
	settingsRepository.New,
	settingsService.New,
	wire.Bind(new(settingsService.FXRate), new(settingsService.Settings)),
	routeRepository.New,
	routeService.New,
	timeEntryRepository.New,
	timeEntryService.New,
	slotRuleRepository.New,
	slotRuleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewPassenger,
	bookingRepository.NewCancellation,
	bookingService.New,
	pilotRepository.New,
	pilotService.New,
	paymentRepository.New,
	paymentService.New,
	ticketService.New,
)

var domains = wire.NewSet(
	userDomain,
	catalogDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	routeHandler.New,
	slotRuleHandler.New,
	timeEntryHandler.New,
	settingsHandler.New,
	auditHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	pilotHandler.New,
	ticketHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		config.Get,
		infrastructures,
		sharedHelpers,
		domains,
		worker.New,
	)

	return &worker.Worker{}
}
