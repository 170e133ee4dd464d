package transaction

import (
	"context"
)

// Repository 交易记录仓储接口
// 只支持追加写入;读取由报表聚合完成
type Repository interface {
	// Create 追加一条交易记录,由存储层分配ID并回填
	// 在购买事务中调用时需从context中取事务句柄
	Create(ctx context.Context, tx *Transaction) error
}
