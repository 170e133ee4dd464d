package book

import (
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidID 图书ID格式不正确
	ErrInvalidID = apperrors.New(apperrors.ErrCodeInvalidID, "图书ID格式不正确")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在0到99999999.99之间且最多两位小数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidSearchPrice 价格搜索条件不是有限数值
	ErrInvalidSearchPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格条件必须是有限数值")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrEmptyImport 导入数据为空
	ErrEmptyImport = apperrors.New(apperrors.ErrCodeInvalidParams, "导入的图书列表为空")
)
