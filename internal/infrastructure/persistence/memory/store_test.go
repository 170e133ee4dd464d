package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/transaction"
)

func seed(t *testing.T, repo book.Repository, title, author string, price float64, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, author, "", price, stock)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(NewStore())

	b := seed(t, repo, "Dune", "Frank Herbert", 9.99, 10)
	assert.NoError(t, book.ValidateID(b.ID))

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	// 返回副本,修改不影响存储
	got.Stock = 999
	again, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Stock)

	require.NoError(t, got.Replace("Dune Messiah", "Frank Herbert", "sequel", 12.5, 4))
	require.NoError(t, repo.Replace(ctx, got))
	again, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", again.Title)
	assert.Equal(t, 4, again.Stock)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)
}

func TestBookRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(NewStore())

	seed(t, repo, "Free Book", "Anon", 0, 1)
	seed(t, repo, "Emma", "Jane Austen", 5, 2)
	seed(t, repo, "Persuasion", "Jane Austen", 15, 3)

	all, err := repo.Search(ctx, book.SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Free Book", all[0].Title, "按插入顺序返回")

	author := "Jane Austen"
	maxPrice := 10.0
	res, err := repo.Search(ctx, book.SearchCriteria{Author: &author, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Emma", res[0].Title)

	zero := 0.0
	res, err = repo.Search(ctx, book.SearchCriteria{MaxPrice: &zero})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Free Book", res[0].Title)
}

func TestBookRepository_DecrementStock(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(NewStore())
	b := seed(t, repo, "Dune", "Frank Herbert", 9.99, 5)

	require.NoError(t, repo.DecrementStock(ctx, b.ID, 5))
	assert.ErrorIs(t, repo.DecrementStock(ctx, b.ID, 1), book.ErrInsufficientStock)
	assert.ErrorIs(t, repo.DecrementStock(ctx, "missing", 1), book.ErrBookNotFound)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestBookRepository_DecrementStock_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(NewStore())
	b := seed(t, repo, "Dune", "Frank Herbert", 9.99, 10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock(ctx, b.ID, 3); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, accepted)
	assert.Equal(t, 1, got.Stock)
}

func TestTxManager_RollbackUndoesWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	books := NewBookRepository(s)
	txs := NewTransactionRepository(s)
	b := seed(t, books, "Dune", "Frank Herbert", 9.99, 5)

	boom := errors.New("boom")
	err := NewTxManager().Transaction(ctx, func(ctx context.Context) error {
		if err := books.DecrementStock(ctx, b.ID, 2); err != nil {
			return err
		}
		rec, err := transaction.NewTransaction(b.ID, "alice", 2)
		if err != nil {
			return err
		}
		if err := txs.Create(ctx, rec); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.Empty(t, s.Transactions())
}

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	books := NewBookRepository(s)
	txs := NewTransactionRepository(s)
	reports := NewReportRepository(s)

	total, err := reports.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total, "空库存总和为0")

	emma := seed(t, books, "Emma", "Jane Austen", 5, 2)
	seed(t, books, "Persuasion", "Jane Austen", 15, 3)
	dune := seed(t, books, "Dune", "Frank Herbert", 9.99, 10)
	gone := seed(t, books, "Gone", "Nobody", 1, 1)

	for _, p := range []struct {
		id     string
		amount int
	}{{dune.ID, 4}, {emma.ID, 1}, {dune.ID, 2}, {gone.ID, 9}} {
		rec, err := transaction.NewTransaction(p.id, "bob", p.amount)
		require.NoError(t, err)
		require.NoError(t, txs.Create(ctx, rec))
	}
	require.NoError(t, books.Delete(ctx, gone.ID))

	authors, err := reports.TopAuthors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Jane Austen", authors[0].Author)
	assert.Equal(t, int64(2), authors[0].Count)

	total, err = reports.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)

	sellers, err := reports.BestSellers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, sellers, 2, "已删除图书的交易被忽略")
	assert.Equal(t, dune.ID, sellers[0].BookID)
	assert.Equal(t, int64(6), sellers[0].TotalSold)
	assert.Equal(t, 9.99, sellers[0].Price)
	assert.Equal(t, emma.ID, sellers[1].BookID)
}

func TestReportRepository_TopAuthorsTiesByAuthor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	books := NewBookRepository(s)

	for _, author := range []string{"Carol", "Alice", "Bob"} {
		seed(t, books, author+" book", author, 1, 1)
	}

	authors, err := NewReportRepository(s).TopAuthors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "Alice", authors[0].Author)
	assert.Equal(t, "Bob", authors[1].Author)
	assert.Equal(t, "Carol", authors[2].Author)
}
