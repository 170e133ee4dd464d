package book

import (
	"context"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
)

// CreateBookUseCase 新增图书用例
// 设计说明:
// 1. 应用层负责用例编排,业务规则校验由领域服务完成
// 2. 新增图书会改变作者统计与库存总和,需要删除报表缓存
type CreateBookUseCase struct {
	bookService book.Service
	cache       report.Cache
}

// NewCreateBookUseCase 创建新增图书用例
func NewCreateBookUseCase(bookService book.Service, cache report.Cache) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// CreateBookRequest 新增图书请求
type CreateBookRequest struct {
	Title       string
	Author      string
	Description string
	Price       float64
	Stock       int
}

// CreateBookResponse 新增图书响应
type CreateBookResponse struct {
	ID string `json:"id"`
}

// Execute 执行新增图书用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.Description, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, uc.cache)
	return &CreateBookResponse{ID: b.ID}, nil
}
