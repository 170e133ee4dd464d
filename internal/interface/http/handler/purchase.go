package handler

import (
	"github.com/gin-gonic/gin"

	apppurchase "github.com/xiebiao/bookstock/internal/application/purchase"
	"github.com/xiebiao/bookstock/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
	"github.com/xiebiao/bookstock/pkg/response"
)

// PurchaseHandler 购买HTTP处理器
type PurchaseHandler struct {
	purchaseBookUseCase *apppurchase.PurchaseBookUseCase
}

// NewPurchaseHandler 创建购买处理器
func NewPurchaseHandler(purchaseBookUseCase *apppurchase.PurchaseBookUseCase) *PurchaseHandler {
	return &PurchaseHandler{purchaseBookUseCase: purchaseBookUseCase}
}

// Purchase 购买图书
// @Summary      购买图书
// @Description  库存充足时扣减库存并记录交易;库存不足返回409及当前库存
// @Tags         购买
// @Accept       json
// @Produce      json
// @Param        request body dto.PurchaseRequest true "购买信息"
// @Success      200 {object} response.Response{data=dto.IDResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      406 {object} response.Response "ID格式不正确"
// @Failure      409 {object} response.Response{data=dto.PurchaseRejected} "库存不足"
// @Router       /purchase [put]
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.purchaseBookUseCase.Execute(c.Request.Context(), apppurchase.PurchaseBookRequest{
		BookID: req.BookID,
		Name:   req.Name,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 库存不足不是错误,但以409返回
	if !result.Accepted {
		response.Fail(c,
			apperrors.New(apperrors.ErrCodeInsufficientStock, result.Message),
			&dto.PurchaseRejected{Message: result.Message, Stock: result.Stock},
		)
		return
	}

	response.Success(c, &dto.IDResponse{ID: result.BookID})
}
