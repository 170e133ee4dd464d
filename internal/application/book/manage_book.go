package book

import (
	"context"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute ID格式错误返回ErrInvalidID(406),不存在返回ErrBookNotFound(404)
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookResponse, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookResponse(b), nil
}

// UpdateBookUseCase 全量更新图书用例
type UpdateBookUseCase struct {
	bookService book.Service
	cache       report.Cache
}

// NewUpdateBookUseCase 创建全量更新图书用例
func NewUpdateBookUseCase(bookService book.Service, cache report.Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// UpdateBookRequest 全量更新请求,所有非ID字段都会被覆盖
type UpdateBookRequest struct {
	ID          string
	Title       string
	Author      string
	Description string
	Price       float64
	Stock       int
}

// Execute 执行更新,返回更新后的图书
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.ReplaceBook(ctx, req.ID, req.Title, req.Author, req.Description, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, uc.cache)
	return toBookResponse(b), nil
}

// DeleteBookUseCase 删除图书用例
// 物理删除图书,该书的交易记录保留,畅销书统计会忽略它们
type DeleteBookUseCase struct {
	bookService book.Service
	cache       report.Cache
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookService book.Service, cache report.Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// DeleteBookResponse 删除图书响应
type DeleteBookResponse struct {
	ID string `json:"id"`
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) (*DeleteBookResponse, error) {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return nil, err
	}

	invalidateReports(ctx, uc.cache)
	return &DeleteBookResponse{ID: id}, nil
}
