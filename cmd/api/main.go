package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/internal/infrastructure/config"
	"github.com/xiebiao/bookstock/pkg/logger"
	"github.com/xiebiao/bookstock/pkg/tracing"
)

// @title        Bookstock API
// @version      1.0
// @description  图书库存服务:图书管理、搜索、购买与报表
// @BasePath     /

// main 主程序入口
// 启动顺序:配置 → 日志 → 链路追踪 → 依赖注入(存储、缓存、消息队列) → HTTP服务
// 收到SIGINT/SIGTERM后停止接收新请求,等待处理中的请求完成再释放资源
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	zap.L().Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("mq", cfg.MQ.Enabled),
		zap.Bool("tracing", cfg.Tracing.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 链路追踪
	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		zap.L().Fatal("初始化链路追踪失败", zap.Error(err))
	}

	// 4. 依赖注入
	engine, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		zap.L().Fatal("初始化应用失败", zap.Error(err))
	}

	// 5. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("服务启动成功", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		zap.L().Info("收到退出信号,开始优雅关闭")
	case err := <-serveErr:
		zap.L().Error("HTTP服务异常退出", zap.Error(err))
	}

	// 6. 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP服务关闭超时", zap.Error(err))
	}
	cleanup()
	if err := shutdownTracer(shutdownCtx); err != nil {
		zap.L().Warn("关闭链路追踪失败", zap.Error(err))
	}
	zap.L().Info("服务已停止")
}
