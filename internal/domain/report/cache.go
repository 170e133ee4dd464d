package report

import (
	"context"
	"strconv"
)

// 报表缓存Key
const (
	KeyTopAuthors  = "report:top_authors"
	KeyTotalStock  = "report:total_stock"
	KeyBestSellers = "report:bestsellers"

	// KeyGeneration 缓存代际计数器,Invalidate时自增
	KeyGeneration = "report:generation"
)

// GenerationKey 报表在指定代际下的实际存储Key
func GenerationKey(key string, gen int64) string {
	return key + ":" + strconv.FormatInt(gen, 10)
}

// Cache 报表缓存接口(Cache-Aside)
// 设计说明:
// 1. 缓存未命中返回(false, gen, nil),调用方回源数据库后用同一个gen回写
// 2. 任何图书或交易的写操作都必须调用Invalidate,代际随之加一
// 3. 回源期间发生Invalidate时,回写落在旧代际上,之后的读取不会命中
// 4. 缓存错误不影响主流程,调用方降级为直接查库
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (hit bool, gen int64, err error)
	Set(ctx context.Context, key string, gen int64, value interface{}) error
	Invalidate(ctx context.Context) error
}

// NopCache 不做任何缓存(未启用Redis时使用)
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, int64, error) { return false, 0, nil }
func (NopCache) Set(context.Context, string, int64, interface{}) error         { return nil }
func (NopCache) Invalidate(context.Context) error                              { return nil }
