package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"charter/shared/cache"
	"charter/shared/constant"
	"charter/shared/dto"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeySeparator = ":"
	queryHashBytes    = 8
)

// BuildCacheKey joins the prefix and parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	var b strings.Builder

	b.WriteString(prefix)

	for _, part := range parts {
		b.WriteString(cacheKeySeparator)
		b.WriteString(part)
	}

	return b.String()
}

// BuildCacheKeyWithQuery suffixes prefix with a short hash of the paging params and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	raw, err := json.Marshal(map[string]any{"params": params, "where": where, "args": args})
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("cache key falls back to bare prefix")

		return prefix
	}

	sum := sha256.Sum256(raw)

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:queryHashBytes]))
}

// InvalidateCaches removes every key under prefix. Failures are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// CacheAsync stores value in the background, detached from the request's cancellation.
func CacheAsync(ctx context.Context, redisCache cache.RedisCache, key string, value any, ttl int) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := redisCache.Save(ctx, key, value, ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to write cache")
		}
	}()
}
