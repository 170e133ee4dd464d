package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/bookstock/internal/domain/transaction"
)

type transactionRepository struct {
	s *Store
}

// NewTransactionRepository 创建内存交易记录仓储
func NewTransactionRepository(s *Store) transaction.Repository {
	return &transactionRepository{s: s}
}

func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t.ID = uuid.NewString()
	c := *t
	r.s.transactions = append(r.s.transactions, &c)

	id := t.ID
	recordUndo(ctx, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		for i, tx := range r.s.transactions {
			if tx.ID == id {
				r.s.transactions = append(r.s.transactions[:i], r.s.transactions[i+1:]...)
				return
			}
		}
	})
	return nil
}
