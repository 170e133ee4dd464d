//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改本文件后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookstock/internal/application/book"
	apppurchase "github.com/xiebiao/bookstock/internal/application/purchase"
	appreport "github.com/xiebiao/bookstock/internal/application/report"
	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/infrastructure/config"
	"github.com/xiebiao/bookstock/internal/interface/http/handler"
	"github.com/xiebiao/bookstock/internal/interface/http/router"
)

// infrastructureSet 存储、缓存、消息队列
// 具体实现由配置决定,见providers.go
var infrastructureSet = wire.NewSet(
	provideStorage,
	provideBookRepository,
	provideTransactionRepository,
	provideReportRepository,
	provideTxManager,
	provideReportCache,
	providePublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewEnsureIndexesUseCase,
	provideImportBooksUseCase,
	apppurchase.NewPurchaseBookUseCase,
	appreport.NewReportsUseCase,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewPurchaseHandler,
	handler.NewReportHandler,
	handler.NewDevHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouterOptions,
	router.New,
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的相反顺序关闭消息队列、Redis、数据库连接
func InitializeApp(ctx context.Context, cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
