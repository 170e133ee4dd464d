package report

import (
	"context"
)

// TopN 排行类报表的固定条数
const TopN = 5

// AuthorCount 作者及其图书数量
type AuthorCount struct {
	Author string
	Count  int64
}

// BestSeller 畅销书统计行
// 图书字段来自关联查询时的books表,价格保持数值类型
type BestSeller struct {
	BookID      string
	TotalSold   int64
	Title       string
	Author      string
	Description string
	Price       float64
	Stock       int
}

// Repository 报表查询接口
// 设计说明:
// 1. 每个报表对应一个具名查询,返回强类型结果
// 2. 畅销书只统计仍然存在的图书(内连接语义),已删除图书的交易记录被忽略
type Repository interface {
	// TopAuthors 按图书数量降序返回前limit位作者
	TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error)

	// TotalStock 所有图书库存之和,没有图书时返回0
	TotalStock(ctx context.Context) (int64, error)

	// BestSellers 按交易总量降序返回前limit本图书
	BestSellers(ctx context.Context, limit int) ([]BestSeller, error)
}
