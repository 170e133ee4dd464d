package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookstock/pkg/errors"
)

// wrapDBError 将数据库错误转换为业务错误
// 记录不存在 → notFound;上下文取消原样返回;其余视为存储不可用(503)
func wrapDBError(err error, notFound error, message string) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, message)
	}
	return apperrors.Unavailable(err, message)
}
