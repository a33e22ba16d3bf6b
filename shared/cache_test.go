package shared_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"charter/shared"
	cacheMocks "charter/shared/cache/mocks"
	"charter/shared/dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "timeentry:get:abc", shared.BuildCacheKey("timeentry:get", "abc"))
	assert.Equal(t, "settings", shared.BuildCacheKey("settings"))
	assert.Equal(t, "fx:IDR:USD", shared.BuildCacheKey("fx", "IDR", "USD"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	byRoute := shared.FilterByField("route_id", "route-1", "time_entries")
	byOther := shared.FilterByField("route_id", "route-2", "time_entries")

	first := shared.BuildCacheKeyWithQuery("timeentry:gets", params, byRoute)

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("timeentry:gets", params, byRoute))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("timeentry:gets", params, byOther))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("timeentry:gets", dto.QueryParams{Page: 2, Limit: 10}, byRoute))
	assert.True(t, strings.HasPrefix(first, "timeentry:gets:"))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := cacheMocks.NewMockRedisCache(ctrl)

	c.EXPECT().Clear(gomock.Any(), "route:gets:*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), c, "route:gets")
}

func TestCacheAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := cacheMocks.NewMockRedisCache(ctrl)
	saved := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())

	c.EXPECT().Save(gomock.Any(), "route:get:r-1", "payload", 60).
		DoAndReturn(func(ctx context.Context, _ string, _ any, _ int) error {
			defer close(saved)
			assert.NoError(t, ctx.Err())

			return nil
		})

	cancel()
	shared.CacheAsync(ctx, c, "route:get:r-1", "payload", 60)

	select {
	case <-saved:
	case <-time.After(time.Second):
		t.Fatal("cache write never happened")
	}
}
