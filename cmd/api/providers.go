package main

import (
	"context"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookstock/internal/application/book"
	apppurchase "github.com/xiebiao/bookstock/internal/application/purchase"
	"github.com/xiebiao/bookstock/internal/domain/book"
	"github.com/xiebiao/bookstock/internal/domain/report"
	"github.com/xiebiao/bookstock/internal/domain/transaction"
	"github.com/xiebiao/bookstock/internal/infrastructure/config"
	"github.com/xiebiao/bookstock/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookstock/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstock/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstock/internal/interface/http/router"
	"github.com/xiebiao/bookstock/pkg/circuitbreaker"
	"github.com/xiebiao/bookstock/pkg/mq"
)

// storage 按database.driver选择的一组仓储实现
type storage struct {
	bookRepo        book.Repository
	transactionRepo transaction.Repository
	reportRepo      report.Repository
	txManager       apppurchase.TxManager
}

// provideStorage 创建存储层
// mysql:连接失败直接返回错误,进程启动失败
// memory:数据只保存在进程内,用于本地开发和演示
func provideStorage(cfg *config.Config) (*storage, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		zap.L().Warn("使用内存存储,进程退出后数据丢失")
		store := memory.NewStore()
		return &storage{
			bookRepo:        memory.NewBookRepository(store),
			transactionRepo: memory.NewTransactionRepository(store),
			reportRepo:      memory.NewReportRepository(store),
			txManager:       memory.NewTxManager(),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return &storage{
		bookRepo:        mysql.NewBookRepository(db),
		transactionRepo: mysql.NewTransactionRepository(db),
		reportRepo:      mysql.NewReportRepository(db),
		txManager:       mysql.NewTxManager(db),
	}, cleanup, nil
}

func provideBookRepository(s *storage) book.Repository               { return s.bookRepo }
func provideTransactionRepository(s *storage) transaction.Repository { return s.transactionRepo }
func provideReportRepository(s *storage) report.Repository           { return s.reportRepo }
func provideTxManager(s *storage) apppurchase.TxManager              { return s.txManager }

// provideReportCache 创建报表缓存
// 未启用Redis时不缓存;启用时带熔断,Redis故障期间报表直接查库
func provideReportCache(ctx context.Context, cfg *config.Config) (report.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		return report.NopCache{}, func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cache := redis.NewGuardedCache(
		redis.NewReportCache(client, cfg.Redis.ReportTTL),
		circuitbreaker.Settings{
			Name:        "report-cache",
			MaxFailures: cfg.Redis.BreakerMaxFailures,
			Timeout:     cfg.Redis.BreakerTimeout,
		},
	)
	return cache, func() { _ = client.Close() }, nil
}

// providePublisher 创建事件发布者,未启用消息队列时事件被丢弃
func providePublisher(cfg *config.Config) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

// provideImportBooksUseCase 批量导入用例,数据文件路径来自配置
func provideImportBooksUseCase(bookService book.Service, cache report.Cache, cfg *config.Config) *appbook.ImportBooksUseCase {
	return appbook.NewImportBooksUseCase(bookService, cache, cfg.Fixture.BooksFile)
}

// provideRouterOptions 生产模式下不暴露Swagger
func provideRouterOptions(cfg *config.Config) router.Options {
	return router.Options{
		Mode:          cfg.Server.Mode,
		EnableSwagger: cfg.Server.Mode != "release",
	}
}
