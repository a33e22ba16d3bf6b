package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"charter/config"
	"charter/infras/otel"
	auditModel "charter/internal/domains/audit/model"
	auditDto "charter/internal/domains/audit/model/dto"
	auditService "charter/internal/domains/audit/service"
	"charter/internal/domains/settings/model"
	"charter/internal/domains/settings/model/dto"
	"charter/internal/domains/settings/repository"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	"charter/shared/failure"
	gModel "charter/shared/model"
	gRepo "charter/shared/repository"
	"charter/shared/timezone"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheSettings = "settings"
	cacheFXRate   = "fx_rate"
	cacheTerms    = "terms"
)

// FXRate is the read side consumed by pricing.
type FXRate interface {
	GetFXRate(ctx context.Context) (int, error)
}

type Settings interface {
	FXRate
	SetFXRate(ctx context.Context, req dto.SetFXRateRequest) (dto.FXRateResponse, error)
	GetTerms(ctx context.Context) (dto.TermsResponse, error)
	SetTerms(ctx context.Context, req dto.SetTermsRequest) (dto.TermsResponse, error)
}

type serviceImpl struct {
	repo  repository.Setting
	tx    gRepo.Transactor
	audit auditService.Audit
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Setting, tx gRepo.Transactor, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Settings {
	return &serviceImpl{
		repo:  repo,
		tx:    tx,
		audit: audit,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetFXRate(ctx context.Context) (rate int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.GetFXRate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheSettings, cacheFXRate)

	if err = s.cache.Get(ctx, cacheKey, &rate); err == nil && rate > 0 {
		return rate, nil
	}

	setting, err := s.repo.Get(ctx, shared.FilterByField(model.FieldKey, model.KeyFXRate, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get fx rate setting")

		return 0, fmt.Errorf("failed to get fx rate setting: %w", err)
	}

	rate = s.cfg.Booking.DefaultFXRate
	if setting.IntValue != nil && *setting.IntValue > 0 {
		rate = *setting.IntValue
	}

	shared.CacheAsync(ctx, s.cache, cacheKey, rate, s.cfg.Cache.TTL)

	return rate, nil
}

func (s *serviceImpl) SetFXRate(ctx context.Context, req dto.SetFXRateRequest) (res dto.FXRateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.SetFXRate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.Rate <= 0 {
		return res, failure.BadRequestFromString("rate must be greater than zero")
	}

	rate := req.Rate
	setting := model.Setting{
		Key:      model.KeyFXRate,
		IntValue: &rate,
		Metadata: gModel.NewMetadata(timezone.Now(), shared.Actor(ctx)),
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.repo.UpsertTx(ctx, tx, setting); err != nil {
			return err
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "fx_rate_set",
			EntityType: auditModel.EntitySetting,
			EntityID:   model.KeyFXRate,
			Details:    map[string]any{"rate": rate},
		})
	})
	if err != nil {
		log.Error().Err(err).Int("rate", rate).Msg("failed to set fx rate")

		return res, fmt.Errorf("failed to set fx rate: %w", err)
	}

	s.invalidate(ctx, cacheFXRate)

	return dto.USDToTZS(rate), nil
}

func (s *serviceImpl) GetTerms(ctx context.Context) (res dto.TermsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.GetTerms")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheSettings, cacheTerms)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil && res.Version != "" {
		return res, nil
	}

	setting, err := s.repo.Get(ctx, shared.FilterByField(model.FieldKey, model.KeyTerms, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get terms setting")

		return res, fmt.Errorf("failed to get terms setting: %w", err)
	}

	res.FromModel(decodeTerms(setting.StrValue))

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) SetTerms(ctx context.Context, req dto.SetTermsRequest) (res dto.TermsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.SetTerms")
	defer scope.End()
	defer scope.TraceIfError(&err)

	terms := req.ToModel()

	raw, err := json.Marshal(terms)
	if err != nil {
		return res, fmt.Errorf("failed to encode terms: %w", err)
	}

	value := string(raw)
	setting := model.Setting{
		Key:      model.KeyTerms,
		StrValue: &value,
		Metadata: gModel.NewMetadata(timezone.Now(), shared.Actor(ctx)),
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.repo.UpsertTx(ctx, tx, setting); err != nil {
			return err
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "terms_set",
			EntityType: auditModel.EntitySetting,
			EntityID:   model.KeyTerms,
			Details:    map[string]any{"version": terms.Version, "url": terms.URL},
		})
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to set terms")

		return res, fmt.Errorf("failed to set terms: %w", err)
	}

	s.invalidate(ctx, cacheTerms)

	res.FromModel(terms)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, key string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheSettings, key)); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to invalidate settings cache")
		}
	}()
}

// decodeTerms falls back to the defaults when the stored value is missing or not valid JSON.
func decodeTerms(value *string) model.Terms {
	if value == nil || *value == "" {
		return model.DefaultTerms()
	}

	var terms model.Terms
	if err := json.Unmarshal([]byte(*value), &terms); err != nil || terms.Version == "" {
		log.Warn().Err(err).Msg("stored terms are malformed, using defaults")

		return model.DefaultTerms()
	}

	return terms
}
