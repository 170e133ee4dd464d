package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstock/pkg/tracing"
)

// RequestIDKey gin.Context中请求ID的key
const RequestIDKey = "request_id"

// HeaderRequestID 请求ID响应头
const HeaderRequestID = "X-Request-ID"

// slowRequestThreshold 超过该耗时的请求以Warn级别记录
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 设计说明:
// 1. 沿用调用方传入的X-Request-ID,没有则生成UUID
// 2. 每个请求开启一个Span,下游的用例Span挂在它下面
// 3. 使用zap结构化输出方法、路由、状态码、耗时、客户端IP
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 请求ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		// 2. 请求Span
		ctx, span := tracing.StartSpan(c.Request.Context(), c.Request.Method+" "+routeOf(c))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", routeOf(c)),
			attribute.Int("http.status_code", status),
		)

		// 3. 结构化日志
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			zap.L().Error("request", fields...)
		case latency > slowRequestThreshold:
			zap.L().Warn("slow request", fields...)
		default:
			zap.L().Info("request", fields...)
		}
	}
}

// GetRequestID 获取当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// routeOf 路由模板(/books/:id),未匹配的路由统一记为unmatched,避免高基数标签
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
