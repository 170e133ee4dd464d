package redis

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstock/internal/domain/report"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReportCache 报表缓存(Cache-Aside)
// 设计说明:
// 1. 报表结果以JSON字符串存储在report.GenerationKey(key, gen)下
// 2. 写操作后代际计数器自增,旧代际的Key不再被读取,由TTL清理
// 3. TTL兜底,即使自增失败也只会在TTL内读到旧数据
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache 创建报表缓存
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Get 读取当前代际的缓存,未命中返回(false, gen, nil)
func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return false, 0, err
	}

	val, err := c.client.Get(ctx, report.GenerationKey(key, gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, gen, nil
		}
		return false, gen, apperrors.New(apperrors.ErrCodeRedisError, "读取报表缓存失败").WithErr(err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		// 数据损坏按未命中处理,下次写入会覆盖
		return false, gen, nil
	}
	return true, gen, nil
}

// Set 写入gen代际的缓存
func (c *ReportCache) Set(ctx context.Context, key string, gen int64, value interface{}) error {
	val, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "序列化报表失败")
	}

	if err := c.client.Set(ctx, report.GenerationKey(key, gen), val, c.ttl).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "写入报表缓存失败").WithErr(err)
	}
	return nil
}

// Invalidate 代际加一,所有报表缓存随之失效
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, report.KeyGeneration).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "删除报表缓存失败").WithErr(err)
	}
	return nil
}

// generation 当前代际,计数器不存在时为0
func (c *ReportCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, report.KeyGeneration).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, apperrors.New(apperrors.ErrCodeRedisError, "读取报表缓存代际失败").WithErr(err)
	}
	return gen, nil
}
