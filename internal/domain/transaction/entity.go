package transaction

import (
	"time"
)

// Transaction 购买交易记录
// 设计说明:
// 1. 只由购买流程创建,创建后不可修改、不会删除
// 2. BookID逻辑上引用图书,存储层不做外键约束;图书删除后交易记录保留
// 3. Amount在创建时不超过图书当时的库存,由购买流程保证而非存储约束
type Transaction struct {
	ID        string
	BookID    string // 图书ID
	Name      string // 购买人
	Amount    int    // 购买数量
	CreatedAt time.Time
}

// NewTransaction 创建交易记录
func NewTransaction(bookID, name string, amount int) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Transaction{
		BookID:    bookID,
		Name:      name,
		Amount:    amount,
		CreatedAt: time.Now(),
	}, nil
}
