package handler

import (
	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/bookstock/internal/application/report"
	"github.com/xiebiao/bookstock/internal/interface/http/dto"
	"github.com/xiebiao/bookstock/pkg/response"
)

// ReportHandler 报表HTTP处理器
type ReportHandler struct {
	reportsUseCase *appreport.ReportsUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reportsUseCase *appreport.ReportsUseCase) *ReportHandler {
	return &ReportHandler{reportsUseCase: reportsUseCase}
}

// TopAuthors 图书最多的作者
// @Summary      图书最多的5位作者
// @Description  按图书数量降序,数量相同按作者名升序
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.AuthorCount}
// @Router       /top-5-authors [get]
func (h *ReportHandler) TopAuthors(c *gin.Context) {
	rows, err := h.reportsUseCase.TopAuthors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.AuthorCount, len(rows))
	for i, r := range rows {
		list[i] = dto.AuthorCount{Author: r.Author, Count: r.Count}
	}
	response.Success(c, list)
}

// TotalStock 库存总和
// @Summary      全部图书库存总和
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response{data=dto.TotalStock}
// @Router       /total-stock [get]
func (h *ReportHandler) TotalStock(c *gin.Context) {
	result, err := h.reportsUseCase.TotalStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.TotalStock{TotalStock: result.TotalStock})
}

// BestSelling 畅销书
// @Summary      销量最高的5本书
// @Description  按交易记录汇总销量,已删除图书的交易被忽略
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BestSeller}
// @Router       /bestselling [get]
func (h *ReportHandler) BestSelling(c *gin.Context) {
	rows, err := h.reportsUseCase.BestSellers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BestSeller, len(rows))
	for i, r := range rows {
		list[i] = dto.BestSeller{
			BookID:      r.BookID,
			TotalSold:   r.TotalSold,
			Title:       r.Title,
			Author:      r.Author,
			Description: r.Description,
			Price:       r.Price,
			Stock:       r.Stock,
		}
	}
	response.Success(c, list)
}
