package book

import (
	"context"
	"time"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装图书的业务规则校验(ID格式、价格、库存、搜索条件)
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateBook 创建图书
	// 业务规则:价格>=0,库存>=0
	CreateBook(ctx context.Context, title, author, description string, price float64, stock int) (*Book, error)

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id string) (*Book, error)

	// ReplaceBook 全量更新图书
	ReplaceBook(ctx context.Context, id, title, author, description string, price float64, stock int) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id string) error

	// SearchBooks 按条件搜索图书,条件为空时返回全部
	SearchBooks(ctx context.Context, criteria SearchCriteria) ([]*Book, error)

	// ImportBooks 批量导入图书
	ImportBooks(ctx context.Context, books []*Book) (int, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title, author, description string, price float64, stock int) (*Book, error) {
	// 1. 创建图书实体(内部校验价格与库存)
	book, err := NewBook(title, author, description, price, stock)
	if err != nil {
		return nil, err
	}

	// 2. 持久化,由存储层分配ID
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ReplaceBook 全量更新图书
func (s *service) ReplaceBook(ctx context.Context, id, title, author, description string, price float64, stock int) (*Book, error) {
	// 1. ID格式校验
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	// 2. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 替换字段
	if err := book.Replace(title, author, description, price, stock); err != nil {
		return nil, err
	}

	// 4. 持久化
	if err := s.repo.Replace(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// DeleteBook 删除图书(物理删除,历史交易记录保留)
func (s *service) DeleteBook(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SearchBooks 按条件搜索图书
func (s *service) SearchBooks(ctx context.Context, criteria SearchCriteria) ([]*Book, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, criteria)
}

// ImportBooks 批量导入图书
// 任意一本校验失败则整批拒绝
func (s *service) ImportBooks(ctx context.Context, books []*Book) (int, error) {
	if len(books) == 0 {
		return 0, ErrEmptyImport
	}

	now := time.Now()
	for _, b := range books {
		if err := validateAttributes(b.Price, b.Stock); err != nil {
			return 0, err
		}
		b.ID = ""
		b.CreatedAt = now
		b.UpdatedAt = now
	}

	if err := s.repo.CreateBatch(ctx, books); err != nil {
		return 0, err
	}
	return len(books), nil
}
