package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstock/internal/domain/book"
)

// importBatchSize 批量导入时每条INSERT的行数
const importBatchSize = 100

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有方法通过getDB参与context中的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库(BeforeCreate生成UUID)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return wrapDBError(err, nil, "创建图书失败")
	}

	// 3. 回填ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// CreateBatch 批量创建图书
func (r *bookRepository) CreateBatch(ctx context.Context, books []*book.Book) error {
	models := make([]*BookModel, len(books))
	for i, b := range books {
		models[i] = toBookModel(b)
	}

	if err := getDB(ctx, r.db).CreateInBatches(models, importBatchSize).Error; err != nil {
		return wrapDBError(err, nil, "批量导入图书失败")
	}

	for i, m := range models {
		books[i].ID = m.ID
	}
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		return nil, wrapDBError(err, book.ErrBookNotFound, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Search 按条件查询图书
// 每个条件转换为一个WHERE子句,条件之间为AND
func (r *bookRepository) Search(ctx context.Context, criteria book.SearchCriteria) ([]*book.Book, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})
	for _, c := range criteria.Conditions() {
		query = query.Where(fmt.Sprintf("%s %s ?", c.Field, c.Op), c.Value)
	}

	var models []BookModel
	if err := query.Find(&models).Error; err != nil {
		return nil, wrapDBError(err, nil, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// Replace 全量更新除ID外的字段
// 使用Select显式列出字段,零值(如库存0、价格0)同样会被写入
func (r *bookRepository) Replace(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{ID: b.ID}).
		Select("title", "author", "description", "price", "stock", "updated_at").
		Updates(model)
	if result.Error != nil {
		return wrapDBError(result.Error, nil, "更新图书失败")
	}

	if result.RowsAffected == 0 {
		// MySQL只统计实际变化的行,再查一次区分"已被删除"与"内容未变"
		return r.exists(db, b.ID)
	}
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return wrapDBError(result.Error, nil, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// DecrementStock 条件原子扣减库存
// UPDATE books SET stock = stock - ? WHERE id = ? AND stock >= ?
// 库存检查与扣减在一条语句内完成,并发购买不会超卖
func (r *bookRepository) DecrementStock(ctx context.Context, id string, amount int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ? AND stock >= ?", id, amount).
		Update("stock", gorm.Expr("stock - ?", amount))
	if result.Error != nil {
		return wrapDBError(result.Error, nil, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在或库存不足,再查一次确定原因
		if err := r.exists(db, id); err != nil {
			return err
		}
		return book.ErrInsufficientStock
	}
	return nil
}

// exists 图书存在返回nil,否则返回ErrBookNotFound
func (r *bookRepository) exists(db *gorm.DB, id string) error {
	var model BookModel
	if err := db.Session(&gorm.Session{}).Select("id").Where("id = ?", id).First(&model).Error; err != nil {
		return wrapDBError(err, book.ErrBookNotFound, "查询图书失败")
	}
	return nil
}

// EnsureIndexes 确保搜索与报表所需索引存在
// 表不存在时先建表(AutoMigrate会一并创建索引)
func (r *bookRepository) EnsureIndexes(ctx context.Context) ([]string, error) {
	specs := []struct {
		model interface{}
		names []string
	}{
		{&BookModel{}, []string{"idx_books_title", "idx_books_author", "idx_books_price"}},
		{&TransactionModel{}, []string{"idx_transactions_book_id"}},
	}

	db := r.db.WithContext(ctx)
	migrator := db.Migrator()
	var ensured []string
	for _, s := range specs {
		if !migrator.HasTable(s.model) {
			if err := db.AutoMigrate(s.model); err != nil {
				return nil, wrapDBError(err, nil, "创建数据表失败")
			}
		}
		for _, name := range s.names {
			if !migrator.HasIndex(s.model, name) {
				if err := migrator.CreateIndex(s.model, name); err != nil {
					return nil, wrapDBError(err, nil, "创建索引失败")
				}
			}
			ensured = append(ensured, name)
		}
	}
	return ensured, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
