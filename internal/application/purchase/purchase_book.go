package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
	"github.com/xiebiao/bookstock/internal/domain/transaction"
	"github.com/xiebiao/bookstock/pkg/metrics"
	"github.com/xiebiao/bookstock/pkg/mq"
	"github.com/xiebiao/bookstock/pkg/tracing"
)

// RoutingKeyPurchaseCompleted 购买成功事件的路由键
const RoutingKeyPurchaseCompleted = "purchase.completed"

// TxManager 事务管理器(MySQL与内存存储各有实现)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PurchaseBookUseCase 购买图书用例
// 设计说明:
// 1. 库存检查与扣减由存储层的一条条件更新完成(stock >= amount时才扣减)
// 2. 扣减与交易记录在同一事务中,任一步失败全部回滚
// 3. 购买数量恰好等于库存时允许,库存清零
// 4. 成功后删除报表缓存、发布事件;这两步失败只记日志
type PurchaseBookUseCase struct {
	bookRepo        book.Repository
	transactionRepo transaction.Repository
	txManager       TxManager
	cache           report.Cache
	publisher       mq.EventPublisher
}

// NewPurchaseBookUseCase 创建购买图书用例
func NewPurchaseBookUseCase(
	bookRepo book.Repository,
	transactionRepo transaction.Repository,
	txManager TxManager,
	cache report.Cache,
	publisher mq.EventPublisher,
) *PurchaseBookUseCase {
	metrics.InitMetrics()
	return &PurchaseBookUseCase{
		bookRepo:        bookRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
	}
}

// PurchaseBookRequest 购买请求
type PurchaseBookRequest struct {
	BookID string
	Name   string // 购买人
	Amount int    // 购买数量,必须大于0
}

// PurchaseBookResponse 购买结果
// Accepted为false时表示库存不足被拒绝,Stock为当前库存
type PurchaseBookResponse struct {
	Accepted      bool
	BookID        string
	TransactionID string
	Message       string
	Stock         int
}

// PurchaseCompletedEvent 购买成功事件
type PurchaseCompletedEvent struct {
	TransactionID string    `json:"transaction_id"`
	BookID        string    `json:"book_id"`
	Name          string    `json:"name"`
	Amount        int       `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Execute 执行购买
// 返回error只表示请求无效或存储故障;库存不足是正常结果,通过Accepted=false返回
func (uc *PurchaseBookUseCase) Execute(ctx context.Context, req PurchaseBookRequest) (resp *PurchaseBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "PurchaseBook")
	span.SetAttributes(
		attribute.String("book.id", req.BookID),
		attribute.Int("purchase.amount", req.Amount),
	)
	start := time.Now()
	defer func() {
		result := metrics.ResultFailed
		if err == nil && resp.Accepted {
			result = metrics.ResultAccepted
		} else if err == nil {
			result = metrics.ResultRejected
		}
		metrics.IncCounterVec(metrics.PurchasesTotal, map[string]string{"result": result})
		metrics.ObserveHistogram(metrics.PurchaseDuration, time.Since(start).Seconds())
		span.SetAttributes(attribute.String("purchase.result", result))
		tracing.RecordError(span, err)
		span.End()
	}()

	// 1. 参数校验
	if err := book.ValidateID(req.BookID); err != nil {
		return nil, err
	}
	rec, err := transaction.NewTransaction(req.BookID, req.Name, req.Amount)
	if err != nil {
		return nil, err
	}

	// 2. 条件扣减库存 + 记录交易(同一事务)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookRepo.DecrementStock(txCtx, req.BookID, req.Amount); err != nil {
			return err
		}
		return uc.transactionRepo.Create(txCtx, rec)
	})

	// 3. 库存不足:读取当前库存后拒绝,不做任何修改
	if errors.Is(err, book.ErrInsufficientStock) {
		b, findErr := uc.bookRepo.FindByID(ctx, req.BookID)
		if findErr != nil {
			return nil, findErr
		}
		return &PurchaseBookResponse{
			Accepted: false,
			BookID:   req.BookID,
			Message:  fmt.Sprintf("库存不足,当前库存:%d,需要:%d", b.Stock, req.Amount),
			Stock:    b.Stock,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// 4. 成功后的附带动作
	metrics.AddCounter(metrics.BooksSoldTotal, float64(req.Amount))
	if err := uc.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("删除报表缓存失败", zap.Error(err))
	}
	uc.publishCompleted(ctx, rec)

	return &PurchaseBookResponse{
		Accepted:      true,
		BookID:        req.BookID,
		TransactionID: rec.ID,
	}, nil
}

// publishCompleted 发布购买成功事件(尽力而为)
func (uc *PurchaseBookUseCase) publishCompleted(ctx context.Context, rec *transaction.Transaction) {
	event := PurchaseCompletedEvent{
		TransactionID: rec.ID,
		BookID:        rec.BookID,
		Name:          rec.Name,
		Amount:        rec.Amount,
		OccurredAt:    rec.CreatedAt,
	}
	if err := uc.publisher.Publish(ctx, RoutingKeyPurchaseCompleted, event); err != nil {
		zap.L().Warn("发布购买事件失败",
			zap.String("transaction_id", rec.ID),
			zap.Error(err),
		)
	}
}
