package handler

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstock/internal/application/book"
	"github.com/xiebiao/bookstock/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
	"github.com/xiebiao/bookstock/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明:
// 1. 只负责参数绑定与响应转换,业务规则在领域层
// 2. 列表与搜索共用SearchBooksUseCase
type BookHandler struct {
	createBookUseCase  *appbook.CreateBookUseCase
	getBookUseCase     *appbook.GetBookUseCase
	updateBookUseCase  *appbook.UpdateBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
	searchBooksUseCase *appbook.SearchBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	searchBooksUseCase *appbook.SearchBooksUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase:  createBookUseCase,
		getBookUseCase:     getBookUseCase,
		updateBookUseCase:  updateBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
		searchBooksUseCase: searchBooksUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书(不分页)
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Failure      503 {object} response.Response "存储不可用"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.searchBooksUseCase.Execute(c.Request.Context(), appbook.SearchBooksRequest{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookList(result))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID(UUID)"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      406 {object} response.Response "ID格式不正确"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.getBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookDTO(result))
}

// CreateBook 新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.IDResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.IDResponse{ID: result.ID})
}

// UpdateBook 全量更新图书
// @Summary      全量更新图书
// @Description  除ID外的所有字段都会被覆盖
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path string true "图书ID(UUID)"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      406 {object} response.Response "ID格式不正确"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          c.Param("id"),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookDTO(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID(UUID)"
// @Success      200 {object} response.Response{data=dto.IDResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      406 {object} response.Response "ID格式不正确"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	result, err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.IDResponse{ID: result.ID})
}

// SearchBooks 搜索图书
// @Summary      搜索图书
// @Description  多个条件之间为AND;不带条件时返回全部图书
// @Tags         图书
// @Produce      json
// @Param        query query dto.SearchBooksQuery false "搜索条件"
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	req, err := parseSearchQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.searchBooksUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookList(result))
}

// parseSearchQuery 解析搜索参数
// 参数缺失或为空字符串视为未提供,其余字符串原样参与精确匹配
func parseSearchQuery(c *gin.Context) (appbook.SearchBooksRequest, error) {
	var req appbook.SearchBooksRequest
	req.Title = optionalString(c, "title")
	req.Author = optionalString(c, "author")

	var err error
	if req.MinPrice, err = optionalFloat(c, "min_price"); err != nil {
		return req, err
	}
	if req.MaxPrice, err = optionalFloat(c, "max_price"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalString(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	v := optionalString(c, key)
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, apperrors.New(apperrors.ErrCodeBindError, "参数错误: "+key+"必须是有限数字")
	}
	return &f, nil
}

func toBookDTO(b *appbook.BookResponse) *dto.BookResponse {
	return &dto.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
	}
}

func toBookList(books []*appbook.BookResponse) []*dto.BookResponse {
	list := make([]*dto.BookResponse, len(books))
	for i, b := range books {
		list[i] = toBookDTO(b)
	}
	return list
}
