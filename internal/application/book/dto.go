package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
)

// BookResponse 图书响应DTO
type BookResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// toBookResponse 领域实体 → 响应DTO
func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
	}
}

// invalidateReports 图书变更后删除报表缓存
// 缓存删除失败只记日志,数据已经提交,报表最迟在TTL后恢复一致
func invalidateReports(ctx context.Context, cache report.Cache) {
	if err := cache.Invalidate(ctx); err != nil {
		zap.L().Warn("删除报表缓存失败", zap.Error(err))
	}
}
