package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/transaction"
)

// Store 内存存储
// 设计说明:
// 1. 与MySQL实现相同的仓储接口,用于本地运行(database.driver=memory)和测试
// 2. 所有读写都在mu保护下进行,库存扣减是一次加锁的比较并交换
// 3. 对外只暴露副本,调用方修改返回值不会影响存储
type Store struct {
	mu           sync.RWMutex
	books        map[string]*book.Book
	order        []string // 插入顺序,保证列表输出稳定
	transactions []*transaction.Transaction
}

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{
		books: make(map[string]*book.Book),
	}
}

// Transactions 返回全部交易记录的副本
func (s *Store) Transactions() []transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]transaction.Transaction, len(s.transactions))
	for i, t := range s.transactions {
		out[i] = *t
	}
	return out
}

func copyBook(b *book.Book) *book.Book {
	c := *b
	return &c
}

// =========================================
// 事务:撤销日志
// =========================================

// undoKey context中撤销日志的key
type undoKey struct{}

type undoLog struct {
	mu    sync.Mutex
	steps []func()
}

func (l *undoLog) add(step func()) {
	l.mu.Lock()
	l.steps = append(l.steps, step)
	l.mu.Unlock()
}

func (l *undoLog) rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i]()
	}
	l.steps = nil
}

// recordUndo 在事务中登记撤销操作,非事务调用直接忽略
func recordUndo(ctx context.Context, step func()) {
	if l, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		l.add(step)
	}
}

// TxManager 内存事务管理器
// fn返回error时按相反顺序执行撤销日志;不提供隔离性,并发安全由单条操作的加锁保证
type TxManager struct{}

// NewTxManager 创建内存事务管理器
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	log := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		log.rollback()
		return err
	}
	return nil
}
