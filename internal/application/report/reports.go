package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/internal/domain/report"
	"github.com/xiebiao/bookstock/pkg/metrics"
	"github.com/xiebiao/bookstock/pkg/tracing"
)

// ReportsUseCase 报表查询用例
// 设计说明:
// 1. Cache-Aside:先查缓存,未命中再查库并按读取时的代际回写
// 2. 缓存读写失败降级为直接查库,不影响请求结果
// 3. 每个报表一个Span,便于定位慢查询
type ReportsUseCase struct {
	repo  report.Repository
	cache report.Cache
}

// NewReportsUseCase 创建报表查询用例
func NewReportsUseCase(repo report.Repository, cache report.Cache) *ReportsUseCase {
	metrics.InitMetrics()
	return &ReportsUseCase{repo: repo, cache: cache}
}

// AuthorCountResponse 作者统计行
type AuthorCountResponse struct {
	Author string `json:"author"`
	Count  int64  `json:"count"`
}

// TotalStockResponse 库存总和
type TotalStockResponse struct {
	TotalStock int64 `json:"total_stock"`
}

// BestSellerResponse 畅销书统计行
type BestSellerResponse struct {
	BookID      string  `json:"book_id"`
	TotalSold   int64   `json:"total_sold"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// TopAuthors 图书数量最多的5位作者
func (uc *ReportsUseCase) TopAuthors(ctx context.Context) ([]AuthorCountResponse, error) {
	var out []AuthorCountResponse
	err := cached(ctx, uc.cache, report.KeyTopAuthors, &out, func(ctx context.Context) error {
		rows, err := uc.repo.TopAuthors(ctx, report.TopN)
		if err != nil {
			return err
		}
		out = make([]AuthorCountResponse, len(rows))
		for i, r := range rows {
			out[i] = AuthorCountResponse{Author: r.Author, Count: r.Count}
		}
		return nil
	})
	return out, err
}

// TotalStock 所有图书库存之和,没有图书时为0
func (uc *ReportsUseCase) TotalStock(ctx context.Context) (*TotalStockResponse, error) {
	var out TotalStockResponse
	err := cached(ctx, uc.cache, report.KeyTotalStock, &out, func(ctx context.Context) error {
		total, err := uc.repo.TotalStock(ctx)
		if err != nil {
			return err
		}
		out.TotalStock = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BestSellers 交易量最高的5本图书
func (uc *ReportsUseCase) BestSellers(ctx context.Context) ([]BestSellerResponse, error) {
	var out []BestSellerResponse
	err := cached(ctx, uc.cache, report.KeyBestSellers, &out, func(ctx context.Context) error {
		rows, err := uc.repo.BestSellers(ctx, report.TopN)
		if err != nil {
			return err
		}
		out = make([]BestSellerResponse, len(rows))
		for i, r := range rows {
			out[i] = BestSellerResponse{
				BookID:      r.BookID,
				TotalSold:   r.TotalSold,
				Title:       r.Title,
				Author:      r.Author,
				Description: r.Description,
				Price:       r.Price,
				Stock:       r.Stock,
			}
		}
		return nil
	})
	return out, err
}

// cached 读取缓存,未命中时执行load填充dest并回写缓存
func cached(ctx context.Context, cache report.Cache, key string, dest interface{}, load func(ctx context.Context) error) error {
	ctx, span := tracing.StartSpan(ctx, "Report "+key)
	defer span.End()

	hit, gen, getErr := cache.Get(ctx, key, dest)
	switch {
	case getErr != nil:
		recordCache(key, metrics.CacheError)
		zap.L().Warn("读取报表缓存失败,降级查库", zap.String("key", key), zap.Error(getErr))
	case hit:
		recordCache(key, metrics.CacheHit)
		return nil
	default:
		recordCache(key, metrics.CacheMiss)
	}

	if err := load(ctx); err != nil {
		tracing.RecordError(span, err)
		return err
	}

	// 读取失败时代际未知,不回写
	if getErr != nil {
		return nil
	}
	if err := cache.Set(ctx, key, gen, dest); err != nil {
		zap.L().Warn("写入报表缓存失败", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func recordCache(key, result string) {
	metrics.IncCounterVec(metrics.ReportCacheRequests, map[string]string{"report": key, "result": result})
}
