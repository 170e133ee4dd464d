package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstock/internal/application/book"
	"github.com/xiebiao/bookstock/internal/interface/http/dto"
	"github.com/xiebiao/bookstock/pkg/response"
)

// DevHandler 开发辅助接口:批量导入与建索引
type DevHandler struct {
	importBooksUseCase   *appbook.ImportBooksUseCase
	ensureIndexesUseCase *appbook.EnsureIndexesUseCase
}

// NewDevHandler 创建开发辅助处理器
func NewDevHandler(importBooksUseCase *appbook.ImportBooksUseCase, ensureIndexesUseCase *appbook.EnsureIndexesUseCase) *DevHandler {
	return &DevHandler{
		importBooksUseCase:   importBooksUseCase,
		ensureIndexesUseCase: ensureIndexesUseCase,
	}
}

// AddBooks 从数据文件批量导入图书
// @Summary      批量导入图书
// @Tags         开发辅助
// @Produce      json
// @Success      200 {object} response.Response{data=dto.BooksAdded}
// @Failure      400 {object} response.Response "数据文件格式错误"
// @Router       /add-books [post]
func (h *DevHandler) AddBooks(c *gin.Context) {
	result, err := h.importBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BooksAdded{BooksAdded: result.BooksAdded})
}

// CreateIndexes 创建搜索与报表索引
// @Summary      创建索引
// @Tags         开发辅助
// @Produce      json
// @Success      200 {object} response.Response{data=dto.IndexesEnsured}
// @Router       /create-indexes [post]
func (h *DevHandler) CreateIndexes(c *gin.Context) {
	result, err := h.ensureIndexesUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.IndexesEnsured{Indexes: result.Indexes})
}
