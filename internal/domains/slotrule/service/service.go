package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"charter/config"
	"charter/infras/otel"
	auditModel "charter/internal/domains/audit/model"
	auditDto "charter/internal/domains/audit/model/dto"
	auditService "charter/internal/domains/audit/service"
	routeModel "charter/internal/domains/route/model"
	routeService "charter/internal/domains/route/service"
	settingsService "charter/internal/domains/settings/service"
	"charter/internal/domains/slotrule/model"
	"charter/internal/domains/slotrule/model/dto"
	"charter/internal/domains/slotrule/repository"
	timeEntryModel "charter/internal/domains/timeentry/model"
	timeEntryRepo "charter/internal/domains/timeentry/repository"
	timeEntryService "charter/internal/domains/timeentry/service"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	gModel "charter/shared/model"
	"charter/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SlotRule interface {
	Create(ctx context.Context, req dto.CreateSlotRuleRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSlotRulesResponse, error)
	Get(ctx context.Context, id string) (dto.SlotRuleResponse, error)
	Update(ctx context.Context, req dto.UpdateSlotRuleRequest, id string) error
	Delete(ctx context.Context, id string) error

	// Generate expands every active rule from today. Malformed rules are reported and skipped.
	Generate(ctx context.Context, today time.Time) (dto.GenerateResult, error)
	RunRule(ctx context.Context, id string, today time.Time) (dto.GenerateResult, error)
	ImportWeeklyPlan(ctx context.Context, req dto.ImportWeeklyPlanRequest) (dto.ImportWeeklyPlanResponse, error)
	// ApplyPreset imports a preset plan for the given number of weeks starting this week.
	ApplyPreset(ctx context.Context, planID string, weeks int, today time.Time) (int, error)
}

type serviceImpl struct {
	repo      repository.SlotRule
	timeEntry timeEntryRepo.TimeEntry
	route     routeService.Route
	fx        settingsService.FXRate
	audit     auditService.Audit
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.SlotRule,
	timeEntry timeEntryRepo.TimeEntry,
	route routeService.Route,
	fx settingsService.FXRate,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) SlotRule {
	return &serviceImpl{
		repo:      repo,
		timeEntry: timeEntry,
		route:     route,
		fx:        fx,
		audit:     audit,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSlotRuleRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	rule := req.ToModel(shared.Actor(ctx))
	if err = rule.Validate(); err != nil {
		return "", failure.BadRequest(err)
	}

	if _, err = s.route.Get(ctx, rule.RouteID); err != nil {
		return "", err
	}

	if err = s.repo.Insert(ctx, rule); err != nil {
		log.Error().Err(err).Msg("failed to create slot rule")

		return "", fmt.Errorf("failed to create slot rule: %w", err)
	}

	s.logAudit(ctx, "slot_rule.create", rule.ID, map[string]any{
		"route_id": rule.RouteID, "days_of_week": rule.DaysOfWeek, "times": rule.Times,
	})

	return rule.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSlotRulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slot rules")

		return res, fmt.Errorf("failed to count slot rules: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot rules")

		return res, fmt.Errorf("failed to get slot rules: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlotRuleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	rule, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(rule)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSlotRuleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = req.Apply(current).Validate(); err != nil {
		return failure.BadRequest(err)
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update slot rule")

		return fmt.Errorf("failed to update slot rule: %w", err)
	}

	s.logAudit(ctx, "slot_rule.update", id, updatedFields)

	return nil
}

// Delete removes the rule only. Departures it already generated stay bookable.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete slot rule")

		return fmt.Errorf("failed to delete slot rule: %w", err)
	}

	s.logAudit(ctx, "slot_rule.delete", id, nil)

	return nil
}

func (s *serviceImpl) Generate(ctx context.Context, today time.Time) (res dto.GenerateResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.Generate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	rules, err := s.repo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByField(model.FieldActive, true, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to load active slot rules")

		return res, fmt.Errorf("failed to load active slot rules: %w", err)
	}

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	res = s.generate(ctx, rules, today, rate)

	log.Info().
		Int("rules", res.Rules).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("slot generation finished")

	return res, nil
}

func (s *serviceImpl) RunRule(ctx context.Context, id string, today time.Time) (res dto.GenerateResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.RunRule")
	defer scope.End()
	defer scope.TraceIfError(&err)

	rule, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	res = s.generate(ctx, []model.SlotRule{rule}, today, rate)

	s.logAudit(ctx, "slot_rule.run", id, map[string]any{"created": res.Created, "skipped": res.Skipped})

	return res, nil
}

func (s *serviceImpl) generate(ctx context.Context, rules []model.SlotRule, today time.Time, rate int) dto.GenerateResult {
	res := dto.GenerateResult{Errors: []string{}}
	actor := shared.Actor(ctx)
	now := timezone.Now()

	for _, rule := range rules {
		res.Rules++

		entries, err := model.Expand(rule, today, rate)
		if err != nil {
			log.Warn().Err(err).Str("rule_id", rule.ID).Msg("skipping malformed slot rule")
			res.Errors = append(res.Errors, fmt.Sprintf("rule %s: %v", rule.ID, err))

			continue
		}

		for i := range entries {
			entries[i].ID = uuid.NewString()
			entries[i].Metadata = gModel.NewMetadata(now, actor)
		}

		created, err := s.timeEntry.InsertIgnore(ctx, entries)
		res.Created += created

		if err != nil {
			log.Error().Err(err).Str("rule_id", rule.ID).Msg("failed to insert generated departures")
			res.Errors = append(res.Errors, fmt.Sprintf("rule %s: %v", rule.ID, err))

			continue
		}

		res.Skipped += len(entries) - created
	}

	if res.Created > 0 {
		go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, timeEntryService.CacheAvailability)
	}

	return res
}

func (s *serviceImpl) ImportWeeklyPlan(ctx context.Context, req dto.ImportWeeklyPlanRequest) (res dto.ImportWeeklyPlanResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.ImportWeeklyPlan")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res.Errors = []string{}

	weekStart, err := timezone.Parse(constant.DayFormat, req.WeekStartDate)
	if err != nil {
		return res, failure.BadRequestFromString("invalid week_start_date")
	}

	req.Normalize()

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	priceTZS := req.DefaultPriceUSD * rate
	actor := shared.Actor(ctx)
	now := timezone.Now()

	for _, leg := range req.Legs {
		fromLabel := routeModel.ResolveLabel(leg.FromCode)
		toLabel := routeModel.ResolveLabel(leg.ToCode)

		if fromLabel == constant.Empty || toLabel == constant.Empty {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown code: %s or %s", leg.FromCode, leg.ToCode))

			continue
		}

		route, created, err := s.route.GetOrCreate(ctx, fromLabel, toLabel)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("route %s -> %s: %v", fromLabel, toLabel, err))

			continue
		}

		if created {
			res.RoutesCreated++
		}

		day := weekStart.AddDate(0, 0, leg.DayOfWeek)
		tzs := priceTZS

		inserted, err := s.timeEntry.InsertIgnore(ctx, []timeEntryModel.TimeEntry{{
			ID:             uuid.NewString(),
			RouteID:        route.ID,
			Date:           day.Format(constant.DayFormat),
			Start:          leg.Start,
			End:            model.EndTime(leg.Start, leg.DurationMinutes),
			PriceUSD:       req.DefaultPriceUSD,
			PriceTZS:       &tzs,
			Currency:       timeEntryModel.CurrencyUSD,
			Capacity:       req.DefaultCapacity,
			SeatsAvailable: req.DefaultCapacity,
			FlightNo:       model.FlightNo(req.FlightNoPrefix, day),
			Cabin:          model.DefaultCabin,
			Visibility:     timeEntryModel.VisibilityPublic,
			Status:         timeEntryModel.StatusPublished,
			Metadata:       gModel.NewMetadata(now, actor),
		}})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s -> %s: %v", day.Format(constant.DayFormat), fromLabel, toLabel, err))

			continue
		}

		res.TimeEntriesCreated += inserted
	}

	s.logAudit(ctx, "weekly_plan.import", req.WeekStartDate, map[string]any{
		"legs": len(req.Legs), "plan_id": req.PlanID, "created": res.TimeEntriesCreated,
	})

	if res.TimeEntriesCreated > 0 {
		go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, timeEntryService.CacheAvailability)
	}

	return res, nil
}

func (s *serviceImpl) ApplyPreset(ctx context.Context, planID string, weeks int, today time.Time) (created int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot_rule.ApplyPreset")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if model.PresetLegs(planID) == nil {
		return 0, failure.BadRequestFromString("unknown plan " + planID)
	}

	monday := timezone.StartOfWeek(today)

	for week := range weeks {
		res, err := s.ImportWeeklyPlan(ctx, dto.ImportWeeklyPlanRequest{
			WeekStartDate: monday.AddDate(0, 0, 7*week).Format(constant.DayFormat),
			PlanID:        planID,
		})
		if err != nil {
			return created, err
		}

		created += res.TimeEntriesCreated
	}

	return created, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.SlotRule, error) {
	rule, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot rule")

		return rule, fmt.Errorf("failed to get slot rule: %w", err)
	}

	if rule.ID == constant.Empty {
		return rule, failure.NotFound("slot rule not found") // nolint:wrapcheck
	}

	return rule, nil
}

func (s *serviceImpl) logAudit(ctx context.Context, action, id string, details map[string]any) {
	err := s.audit.Log(ctx, nil, auditDto.Entry{
		Action:     action,
		EntityType: auditModel.EntitySlotRule,
		EntityID:   id,
		Details:    details,
	})
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("failed to audit slot rule change")
	}
}
