package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstock/internal/domain/report"
	"github.com/xiebiao/bookstock/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

// flakyCache 按设定返回错误并统计调用次数
type flakyCache struct {
	err   error
	calls int
}

func (f *flakyCache) Get(context.Context, string, interface{}) (bool, int64, error) {
	f.calls++
	return false, 0, f.err
}

func (f *flakyCache) Set(context.Context, string, int64, interface{}) error {
	f.calls++
	return f.err
}

func (f *flakyCache) Invalidate(context.Context) error {
	f.calls++
	return f.err
}

func TestGuardedCache_ImplementsCache(t *testing.T) {
	var _ report.Cache = NewGuardedCache(report.NopCache{}, circuitbreaker.Settings{})
}

func TestGuardedCache_OpensOnRedisErrors(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: apperrors.New(apperrors.ErrCodeRedisError, "down").WithErr(errors.New("dial tcp"))}
	cache := NewGuardedCache(inner, circuitbreaker.Settings{Name: "report-cache", MaxFailures: 2, Timeout: time.Minute})

	var total int64
	_, _, err := cache.Get(ctx, report.KeyTotalStock, &total)
	require.Error(t, err)
	_, _, err = cache.Get(ctx, report.KeyTotalStock, &total)
	require.Error(t, err)
	assert.Equal(t, circuitbreaker.StateOpen, cache.State())
	assert.Equal(t, 2, inner.calls)

	// 熔断期间不再访问Redis,错误仍归类为Redis错误
	err = cache.Invalidate(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRedisError))
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls)
}

func TestGuardedCache_NonRedisErrorsDoNotTrip(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: apperrors.Wrap(errors.New("unsupported type"), "序列化报表失败")}
	cache := NewGuardedCache(inner, circuitbreaker.Settings{MaxFailures: 1})

	for i := 0; i < 3; i++ {
		assert.Error(t, cache.Set(ctx, report.KeyTopAuthors, 0, make(chan int)))
	}
	assert.Equal(t, circuitbreaker.StateClosed, cache.State())
	assert.Equal(t, 3, inner.calls)
}

func TestGuardedCache_PassesThroughHits(t *testing.T) {
	cache := NewGuardedCache(report.NopCache{}, circuitbreaker.Settings{})

	var total int64
	hit, _, err := cache.Get(context.Background(), report.KeyTotalStock, &total)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, cache.Invalidate(context.Background()))
}
