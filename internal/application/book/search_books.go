package book

import (
	"context"

	"github.com/xiebiao/bookstock/internal/domain/book"
)

// SearchBooksUseCase 图书搜索用例
// 设计说明:
// 1. 列表与搜索共用此用例,列表即没有任何条件的搜索
// 2. 不分页,返回全部匹配的图书
type SearchBooksUseCase struct {
	bookService book.Service
}

// NewSearchBooksUseCase 创建图书搜索用例
func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{bookService: bookService}
}

// SearchBooksRequest 搜索条件,nil表示未提供
type SearchBooksRequest struct {
	Title    *string
	Author   *string
	MinPrice *float64
	MaxPrice *float64
}

// Execute 执行搜索
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) ([]*BookResponse, error) {
	books, err := uc.bookService.SearchBooks(ctx, book.SearchCriteria{
		Title:    req.Title,
		Author:   req.Author,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*BookResponse, len(books))
	for i, b := range books {
		list[i] = toBookResponse(b)
	}
	return list, nil
}
