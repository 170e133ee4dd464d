package report

import (
	"context"
	"errors"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
	"github.com/xiebiao/bookstock/internal/domain/transaction"
	"github.com/xiebiao/bookstock/internal/infrastructure/persistence/memory"
)

// mapCache 基于map的缓存,按JSON存储,代际规则与Redis实现一致
type mapCache struct {
	data   map[string][]byte
	gen    int64
	getErr error
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, int64, error) {
	if c.getErr != nil {
		return false, 0, c.getErr
	}
	v, ok := c.data[report.GenerationKey(key, c.gen)]
	if !ok {
		return false, c.gen, nil
	}
	return true, c.gen, jsoniter.Unmarshal(v, dest)
}

func (c *mapCache) Set(_ context.Context, key string, gen int64, value interface{}) error {
	v, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}
	c.data[report.GenerationKey(key, gen)] = v
	c.sets++
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.gen++
	return nil
}

// interleavedRepo 在第一次统计库存之后执行during,模拟回源期间发生写操作
type interleavedRepo struct {
	report.Repository
	during func()
}

func (r *interleavedRepo) TotalStock(ctx context.Context) (int64, error) {
	total, err := r.Repository.TotalStock(ctx)
	if r.during != nil {
		r.during()
		r.during = nil
	}
	return total, err
}

type fixture struct {
	books book.Repository
	txs   transaction.Repository
	cache *mapCache
	uc    *ReportsUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	cache := newMapCache()
	return &fixture{
		books: memory.NewBookRepository(store),
		txs:   memory.NewTransactionRepository(store),
		cache: cache,
		uc:    NewReportsUseCase(memory.NewReportRepository(store), cache),
	}
}

func (f *fixture) seed(t *testing.T, title, author string, price float64, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, author, "about "+title, price, stock)
	require.NoError(t, err)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) sell(t *testing.T, bookID string, amount int) {
	t.Helper()
	rec, err := transaction.NewTransaction(bookID, "buyer", amount)
	require.NoError(t, err)
	require.NoError(t, f.txs.Create(context.Background(), rec))
}

func TestTotalStock_EmptyStore(t *testing.T) {
	f := newFixture()

	res, err := f.uc.TotalStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalStock)
}

func TestTopAuthors_LimitedToFive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for i, author := range []string{"A", "B", "C", "D", "E", "F"} {
		for j := 0; j <= i; j++ {
			f.seed(t, author+" book", author, 1, 1)
		}
	}

	res, err := f.uc.TopAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, res, report.TopN)
	assert.Equal(t, AuthorCountResponse{Author: "F", Count: 6}, res[0])
	assert.Equal(t, AuthorCountResponse{Author: "B", Count: 2}, res[4])
}

func TestBestSellers_PriceAndOrphans(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	dune := f.seed(t, "Dune", "Frank Herbert", 9.99, 10)
	emma := f.seed(t, "Emma", "Jane Austen", 5.5, 3)
	gone := f.seed(t, "Gone", "Nobody", 1, 1)
	f.sell(t, dune.ID, 2)
	f.sell(t, emma.ID, 1)
	f.sell(t, dune.ID, 3)
	f.sell(t, gone.ID, 50)
	require.NoError(t, f.books.Delete(ctx, gone.ID))

	res, err := f.uc.BestSellers(ctx)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, BestSellerResponse{
		BookID:      dune.ID,
		TotalSold:   5,
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: "about Dune",
		Price:       9.99,
		Stock:       10,
	}, res[0])
	assert.Equal(t, emma.ID, res[1].BookID)
}

func TestReports_CacheAside(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed(t, "Dune", "Frank Herbert", 9.99, 10)

	first, err := f.uc.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.TotalStock)
	assert.Equal(t, 1, f.cache.sets)

	// 未失效前读到缓存值
	f.seed(t, "Emma", "Jane Austen", 5, 4)
	second, err := f.uc.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), second.TotalStock)
	assert.Equal(t, 1, f.cache.sets)

	require.NoError(t, f.cache.Invalidate(ctx))
	third, err := f.uc.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(14), third.TotalStock)
}

func TestReports_CacheErrorFallsBackToStore(t *testing.T) {
	f := newFixture()
	f.cache.getErr = errors.New("redis down")
	f.seed(t, "Dune", "Frank Herbert", 9.99, 7)

	res, err := f.uc.TotalStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.TotalStock)
	assert.Equal(t, 0, f.cache.sets)
}

func TestReports_InvalidateDuringLoadDiscardsStaleValue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{
		books: memory.NewBookRepository(store),
		txs:   memory.NewTransactionRepository(store),
		cache: newMapCache(),
	}
	repo := &interleavedRepo{Repository: memory.NewReportRepository(store)}
	f.uc = NewReportsUseCase(repo, f.cache)
	f.seed(t, "Dune", "Frank Herbert", 9.99, 10)

	// 回源读到10之后,新增图书并失效缓存,回写的10落在旧代际上
	repo.during = func() {
		f.seed(t, "Emma", "Jane Austen", 5, 4)
		require.NoError(t, f.cache.Invalidate(ctx))
	}
	first, err := f.uc.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.TotalStock)

	second, err := f.uc.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(14), second.TotalStock)

	third, err := f.uc.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(14), third.TotalStock)
	assert.Equal(t, 2, f.cache.sets)
}

func TestReports_NopCache(t *testing.T) {
	store := memory.NewStore()
	uc := NewReportsUseCase(memory.NewReportRepository(store), report.NopCache{})

	authors, err := uc.TopAuthors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, authors)

	sellers, err := uc.BestSellers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sellers)
}
