package book

import (
	"context"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
	"github.com/xiebiao/bookstock/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ImportBooksUseCase 从数据文件批量导入图书(开发辅助)
type ImportBooksUseCase struct {
	bookService book.Service
	cache       report.Cache
	path        string
}

// NewImportBooksUseCase 创建批量导入用例,path为JSON数组格式的图书文件
func NewImportBooksUseCase(bookService book.Service, cache report.Cache, path string) *ImportBooksUseCase {
	metrics.InitMetrics()
	return &ImportBooksUseCase{
		bookService: bookService,
		cache:       cache,
		path:        path,
	}
}

// fixtureBook 数据文件中的一本图书
type fixtureBook struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// ImportBooksResponse 批量导入响应
type ImportBooksResponse struct {
	BooksAdded int `json:"books_added"`
}

// Execute 读取数据文件并整批写入
func (uc *ImportBooksUseCase) Execute(ctx context.Context) (*ImportBooksResponse, error) {
	data, err := os.ReadFile(uc.path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "读取图书数据文件失败: %s", uc.path)
	}

	var fixtures []fixtureBook
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "图书数据文件格式错误").WithErr(err)
	}

	books := make([]*book.Book, len(fixtures))
	for i, f := range fixtures {
		books[i] = &book.Book{
			Title:       f.Title,
			Author:      f.Author,
			Description: f.Description,
			Price:       f.Price,
			Stock:       f.Stock,
		}
	}

	n, err := uc.bookService.ImportBooks(ctx, books)
	if err != nil {
		return nil, err
	}

	metrics.AddCounter(metrics.BooksImportedTotal, float64(n))
	invalidateReports(ctx, uc.cache)
	zap.L().Info("批量导入图书完成", zap.Int("books_added", n), zap.String("file", uc.path))

	return &ImportBooksResponse{BooksAdded: n}, nil
}

// EnsureIndexesUseCase 创建搜索与报表所需索引(开发辅助)
type EnsureIndexesUseCase struct {
	bookRepo book.Repository
}

// NewEnsureIndexesUseCase 创建索引用例
func NewEnsureIndexesUseCase(bookRepo book.Repository) *EnsureIndexesUseCase {
	return &EnsureIndexesUseCase{bookRepo: bookRepo}
}

// EnsureIndexesResponse 索引创建响应
type EnsureIndexesResponse struct {
	Indexes []string `json:"indexes"`
}

// Execute 执行索引创建,已存在的索引不会重复创建
func (uc *EnsureIndexesUseCase) Execute(ctx context.Context) (*EnsureIndexesResponse, error) {
	names, err := uc.bookRepo.EnsureIndexes(ctx)
	if err != nil {
		return nil, err
	}
	return &EnsureIndexesResponse{Indexes: names}, nil
}
