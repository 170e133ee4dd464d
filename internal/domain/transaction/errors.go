package transaction

import (
	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

// 交易领域错误定义
var (
	// ErrInvalidAmount 购买数量不合法
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
)
