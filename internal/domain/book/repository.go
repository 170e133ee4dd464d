package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL、内存)
// 2. 事务通过context传递,实现方需从context中取事务句柄
type Repository interface {
	// Create 创建图书,由存储层分配ID并回填
	Create(ctx context.Context, book *Book) error

	// CreateBatch 批量创建图书(批量导入使用)
	CreateBatch(ctx context.Context, books []*Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Search 按条件查询图书,条件为空时返回全部
	// 返回顺序由存储层决定,不保证稳定
	Search(ctx context.Context, criteria SearchCriteria) ([]*Book, error)

	// Replace 全量更新除ID外的字段
	Replace(ctx context.Context, book *Book) error

	// Delete 删除图书,不存在返回ErrBookNotFound
	Delete(ctx context.Context, id string) error

	// DecrementStock 条件原子扣减库存
	// 等价于:UPDATE books SET stock = stock - amount WHERE id = ? AND stock >= amount
	// 未生效时区分原因:图书不存在返回ErrBookNotFound,库存不足返回ErrInsufficientStock
	DecrementStock(ctx context.Context, id string, amount int) error

	// EnsureIndexes 确保搜索与报表所需索引存在
	EnsureIndexes(ctx context.Context) ([]string, error)
}
