package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstock/internal/domain/transaction"
)

// transactionRepository 交易记录仓储实现(MySQL)
// 只追加写入,必须通过getDB参与购买事务
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建交易记录仓储
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &transactionRepository{db: db}
}

// Create 追加交易记录
func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	model := &TransactionModel{
		ID:        t.ID,
		BookID:    t.BookID,
		Name:      t.Name,
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return wrapDBError(err, nil, "创建交易记录失败")
	}

	t.ID = model.ID
	t.CreatedAt = model.CreatedAt
	return nil
}
