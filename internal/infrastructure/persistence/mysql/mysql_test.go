package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

const testBookID = "3f0c6a56-63a4-4c8c-9f0e-6c1d6f1f7a11"

// newMockDB 基于sqlmock创建GORM连接
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func bookColumns() []string {
	return []string{"id", "title", "author", "description", "price", "stock", "created_at", "updated_at"}
}

func TestBookRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `books`")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := book.NewBook("Dune", "Frank Herbert", "desert planet", 9.99, 10)
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), b))
	assert.NoError(t, book.ValidateID(b.ID), "BeforeCreate应分配UUID")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookRepository(db)

	rows := sqlmock.NewRows(bookColumns()).
		AddRow(testBookID, "Dune", "Frank Herbert", "desert planet", 9.99, 10, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `books` WHERE id = ?")).WillReturnRows(rows)

	b, err := repo.FindByID(context.Background(), testBookID)
	require.NoError(t, err)
	assert.Equal(t, testBookID, b.ID)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 9.99, b.Price)
	assert.Equal(t, 10, b.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `books` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(bookColumns()))

	_, err := repo.FindByID(context.Background(), testBookID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_FindByID_Unavailable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `books`")).
		WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := repo.FindByID(context.Background(), testBookID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDatabaseError))
	assert.Equal(t, 503, apperrors.GetAppError(err).HTTPStatus())
}

func TestBookRepository_Search(t *testing.T) {
	t.Run("无条件返回全部", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		rows := sqlmock.NewRows(bookColumns()).
			AddRow(testBookID, "Dune", "Frank Herbert", "", 9.99, 10, nil, nil).
			AddRow("8d1c2f7e-5c1b-4b8e-9a55-0c3f4e6b7d22", "Emma", "Jane Austen", "", 5.0, 3, nil, nil)
		mock.ExpectQuery("^" + regexp.QuoteMeta("SELECT * FROM `books`") + "$").WillReturnRows(rows)

		books, err := repo.Search(context.Background(), book.SearchCriteria{})
		require.NoError(t, err)
		assert.Len(t, books, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("min_price为0时仍然生效", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		zero := 0.0
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `books` WHERE price >= ?")).
			WillReturnRows(sqlmock.NewRows(bookColumns()))

		_, err := repo.Search(context.Background(), book.SearchCriteria{MinPrice: &zero})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("多个条件按AND组合", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		author := "Jane Austen"
		minPrice, maxPrice := 1.0, 20.0
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `books` WHERE author = ? AND price >= ? AND price <= ?")).
			WillReturnRows(sqlmock.NewRows(bookColumns()))

		_, err := repo.Search(context.Background(), book.SearchCriteria{
			Author:   &author,
			MinPrice: &minPrice,
			MaxPrice: &maxPrice,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `books` WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), testBookID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_Replace(t *testing.T) {
	updateSQL := regexp.QuoteMeta("UPDATE `books` SET `title`=?,`author`=?,`description`=?,`price`=?,`stock`=?,`updated_at`=?")
	probeSQL := regexp.QuoteMeta("SELECT `id` FROM `books` WHERE id = ?")

	replacement := func() *book.Book {
		b, err := book.NewBook("Dune Messiah", "Frank Herbert", "", 0, 0)
		require.NoError(t, err)
		b.ID = testBookID
		return b
	}

	t.Run("更新成功", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Replace(context.Background(), replacement()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("内容未变", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(probeSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testBookID))

		require.NoError(t, repo.Replace(context.Background(), replacement()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("更新前已被删除", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(probeSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.Replace(context.Background(), replacement())
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookRepository_DecrementStock(t *testing.T) {
	updateSQL := regexp.QuoteMeta("UPDATE `books` SET `stock`=stock - ?")
	probeSQL := regexp.QuoteMeta("SELECT `id` FROM `books` WHERE id = ?")

	t.Run("扣减成功", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DecrementStock(context.Background(), testBookID, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("库存不足", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(probeSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testBookID))

		err := repo.DecrementStock(context.Background(), testBookID, 99)
		assert.ErrorIs(t, err, book.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("图书不存在", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookRepository(db)

		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(probeSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.DecrementStock(context.Background(), testBookID, 1)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTxManager_CommitAndRollback(t *testing.T) {
	t.Run("成功提交", func(t *testing.T) {
		db, mock := newMockDB(t)
		books := NewBookRepository(db)
		txs := NewTransactionRepository(db)
		tm := NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `books` SET `stock`=stock - ?")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `transactions`")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rec, err := transaction.NewTransaction(testBookID, "alice", 2)
		require.NoError(t, err)

		err = tm.Transaction(context.Background(), func(ctx context.Context) error {
			if err := books.DecrementStock(ctx, testBookID, 2); err != nil {
				return err
			}
			return txs.Create(ctx, rec)
		})
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("出错回滚", func(t *testing.T) {
		db, mock := newMockDB(t)
		books := NewBookRepository(db)
		tm := NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `books` SET `stock`=stock - ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `books`")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testBookID))
		mock.ExpectRollback()

		err := tm.Transaction(context.Background(), func(ctx context.Context) error {
			return books.DecrementStock(ctx, testBookID, 50)
		})
		assert.ErrorIs(t, err, book.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReportRepository_TopAuthors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"author", "book_count"}).
		AddRow("Jane Austen", 3).
		AddRow("Frank Herbert", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT author, COUNT(*) AS book_count FROM `books`")).WillReturnRows(rows)

	result, err := repo.TopAuthors(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Jane Austen", result[0].Author)
	assert.Equal(t, int64(3), result[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_TotalStock_EmptyStore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(stock), 0) FROM `books`")).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))

	total, err := repo.TotalStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_BestSellers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"book_id", "total_sold", "title", "author", "description", "price", "stock"}).
		AddRow(testBookID, 7, "Dune", "Frank Herbert", "desert planet", 9.99, 3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.book_id, s.total_sold, b.title")).WillReturnRows(rows)

	result, err := repo.BestSellers(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(7), result[0].TotalSold)
	assert.Equal(t, "desert planet", result[0].Description)
	assert.Equal(t, 9.99, result[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopAuthorsQuery_OrdersTiesByAuthor(t *testing.T) {
	db, _ := newMockDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []authorCountRow
		return topAuthorsQuery(tx, 5).Find(&rows)
	})

	assert.Contains(t, sql, "ORDER BY book_count DESC, author ASC LIMIT 5")
}

func TestBestSellersQuery_JoinsAggregatedTransactions(t *testing.T) {
	db, _ := newMockDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []bestSellerRow
		return bestSellersQuery(tx, 5).Find(&rows)
	})

	assert.Contains(t, sql, "SUM(amount) AS total_sold")
	assert.Contains(t, sql, "GROUP BY `book_id`")
	assert.Contains(t, sql, "JOIN books AS b ON b.id = s.book_id")
	assert.Contains(t, sql, "b.price")
}
