package redis

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/internal/domain/report"
	"github.com/xiebiao/bookstock/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

// GuardedCache 带熔断的报表缓存
// 设计说明:
// 1. Redis连续出错后熔断器打开,期间所有缓存操作立即返回错误,报表直接查库
// 2. 只有Redis错误计入失败,序列化错误不影响熔断状态
// 3. 熔断期间的Invalidate同样被跳过,旧数据最迟在TTL后过期
type GuardedCache struct {
	cache   report.Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedCache 用熔断器包装缓存
func NewGuardedCache(cache report.Cache, settings circuitbreaker.Settings) *GuardedCache {
	settings.IsFailure = func(err error) bool {
		return apperrors.IsCode(err, apperrors.ErrCodeRedisError)
	}
	settings.OnStateChange = func(name string, from, to circuitbreaker.State) {
		zap.L().Warn("缓存熔断器状态变化",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}
	return &GuardedCache{
		cache:   cache,
		breaker: circuitbreaker.New(settings),
	}
}

// Get 读取缓存
func (g *GuardedCache) Get(ctx context.Context, key string, dest interface{}) (bool, int64, error) {
	var (
		hit bool
		gen int64
	)
	err := g.breaker.Execute(func() error {
		var err error
		hit, gen, err = g.cache.Get(ctx, key, dest)
		return err
	})
	return hit, gen, g.wrapOpen(err)
}

// Set 写入缓存
func (g *GuardedCache) Set(ctx context.Context, key string, gen int64, value interface{}) error {
	return g.wrapOpen(g.breaker.Execute(func() error {
		return g.cache.Set(ctx, key, gen, value)
	}))
}

// Invalidate 使全部报表缓存失效
func (g *GuardedCache) Invalidate(ctx context.Context) error {
	return g.wrapOpen(g.breaker.Execute(func() error {
		return g.cache.Invalidate(ctx)
	}))
}

// State 熔断器当前状态
func (g *GuardedCache) State() circuitbreaker.State {
	return g.breaker.State()
}

func (g *GuardedCache) wrapOpen(err error) error {
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return apperrors.New(apperrors.ErrCodeRedisError, "缓存服务熔断中").WithErr(err)
	}
	return err
}
