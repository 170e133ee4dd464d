package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/bookstock/internal/domain/book"
)

type bookRepository struct {
	s *Store
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository(s *Store) book.Repository {
	return &bookRepository{s: s}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insertLocked(b)
	return nil
}

func (r *bookRepository) CreateBatch(ctx context.Context, books []*book.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range books {
		r.insertLocked(b)
	}
	return nil
}

func (r *bookRepository) insertLocked(b *book.Book) {
	b.ID = uuid.NewString()
	r.s.books[b.ID] = copyBook(b)
	r.s.order = append(r.s.order, b.ID)
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return copyBook(b), nil
}

func (r *bookRepository) Search(ctx context.Context, criteria book.SearchCriteria) ([]*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*book.Book, 0, len(r.s.order))
	for _, id := range r.s.order {
		b := r.s.books[id]
		if criteria.Matches(b) {
			out = append(out, copyBook(b))
		}
	}
	return out, nil
}

func (r *bookRepository) Replace(ctx context.Context, b *book.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.books[b.ID]
	if !ok {
		return book.ErrBookNotFound
	}
	updated := copyBook(b)
	updated.CreatedAt = existing.CreatedAt
	r.s.books[b.ID] = updated
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.s.books, id)
	for i, oid := range r.s.order {
		if oid == id {
			r.s.order = append(r.s.order[:i], r.s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DecrementStock 加锁比较并扣减,与MySQL的条件UPDATE语义一致
func (r *bookRepository) DecrementStock(ctx context.Context, id string, amount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock < amount {
		return book.ErrInsufficientStock
	}
	b.Stock -= amount

	recordUndo(ctx, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		if b, ok := r.s.books[id]; ok {
			b.Stock += amount
		}
	})
	return nil
}

// EnsureIndexes 内存存储没有索引,返回空列表
func (r *bookRepository) EnsureIndexes(ctx context.Context) ([]string, error) {
	return []string{}, ctx.Err()
}
