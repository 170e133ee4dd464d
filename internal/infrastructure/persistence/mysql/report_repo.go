package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstock/internal/domain/report"
)

// reportRepository 报表查询实现(MySQL)
// 设计说明:
// 1. 每个报表由一个具名的查询构造函数生成,便于单独测试SQL
// 2. 查询结果扫描到带列名的行结构,再转换为领域类型
// 3. 每条查询链都从session(db)开始,不受传入句柄上已有条件的影响
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

// authorCountRow 作者统计行
type authorCountRow struct {
	Author    string
	BookCount int64
}

// bestSellerRow 畅销书统计行
type bestSellerRow struct {
	BookID      string
	TotalSold   int64
	Title       string
	Author      string
	Description string
	Price       float64
	Stock       int
}

// topAuthorsQuery 按图书数量统计作者
// SELECT author, COUNT(*) AS book_count FROM books GROUP BY author ORDER BY book_count DESC, author LIMIT ?
func topAuthorsQuery(db *gorm.DB, limit int) *gorm.DB {
	return session(db).Model(&BookModel{}).
		Select("author, COUNT(*) AS book_count").
		Group("author").
		Order("book_count DESC, author ASC").
		Limit(limit)
}

// totalStockQuery 库存总和,空表时COALESCE为0
func totalStockQuery(db *gorm.DB) *gorm.DB {
	return session(db).Model(&BookModel{}).Select("COALESCE(SUM(stock), 0)")
}

// bestSellersQuery 畅销书排行
// 先按book_id聚合交易量取前limit名,再与books内连接补全图书字段
// 图书已删除的聚合行在连接时被丢弃
func bestSellersQuery(db *gorm.DB, limit int) *gorm.DB {
	sold := session(db).Model(&TransactionModel{}).
		Select("book_id, SUM(amount) AS total_sold").
		Group("book_id").
		Order("total_sold DESC, book_id ASC").
		Limit(limit)

	return session(db).Table("(?) AS s", sold).
		Select("s.book_id, s.total_sold, b.title, b.author, b.description, b.price, b.stock").
		Joins("JOIN books AS b ON b.id = s.book_id").
		Order("s.total_sold DESC, s.book_id ASC")
}

// session 返回可安全链式调用的新会话
// ToSQL等回调拿到的句柄共享同一个Statement,直接链式调用会相互覆盖
func session(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{})
}

// TopAuthors 图书数量最多的作者
func (r *reportRepository) TopAuthors(ctx context.Context, limit int) ([]report.AuthorCount, error) {
	var rows []authorCountRow
	if err := topAuthorsQuery(getDB(ctx, r.db), limit).Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, nil, "统计作者失败")
	}

	result := make([]report.AuthorCount, len(rows))
	for i, row := range rows {
		result[i] = report.AuthorCount{Author: row.Author, Count: row.BookCount}
	}
	return result, nil
}

// TotalStock 库存总和
func (r *reportRepository) TotalStock(ctx context.Context) (int64, error) {
	var total int64
	if err := totalStockQuery(getDB(ctx, r.db)).Scan(&total).Error; err != nil {
		return 0, wrapDBError(err, nil, "统计库存失败")
	}
	return total, nil
}

// BestSellers 交易量最高的图书
func (r *reportRepository) BestSellers(ctx context.Context, limit int) ([]report.BestSeller, error) {
	var rows []bestSellerRow
	if err := bestSellersQuery(getDB(ctx, r.db), limit).Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, nil, "统计畅销书失败")
	}

	result := make([]report.BestSeller, len(rows))
	for i, row := range rows {
		result[i] = report.BestSeller{
			BookID:      row.BookID,
			TotalSold:   row.TotalSold,
			Title:       row.Title,
			Author:      row.Author,
			Description: row.Description,
			Price:       row.Price,
			Stock:       row.Stock,
		}
	}
	return result, nil
}
