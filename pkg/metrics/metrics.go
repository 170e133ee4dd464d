// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减的累计值，如请求总数、购买总数
//   - Gauge（仪表盘）：可增可减的瞬时值，如正在处理的请求数
//   - Histogram（直方图）：观测值的分布，如请求耗时
//
// # 使用示例
//
//	// 1. 启动时初始化
//	metrics.InitMetrics()
//
//	// 2. 路由中暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码中记录
//	metrics.IncCounterVec(metrics.PurchasesTotal, map[string]string{"result": metrics.ResultAccepted})
//
// # 命名规范
//
//   - Counter以`_total`结尾
//   - Histogram以单位结尾（`_seconds`）
//   - 标签只使用有限取值（status、method、result），不使用图书ID等高基数值
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 购买结果标签取值
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// 报表缓存结果标签取值
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// initOnce 防止重复注册
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method、path（路由模板，如/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// PurchasesTotal 购买请求总数（Counter）
	// 标签：result（accepted/rejected/failed）
	PurchasesTotal *prometheus.CounterVec

	// BooksSoldTotal 售出图书总册数（Counter）
	BooksSoldTotal prometheus.Counter

	// PurchaseDuration 购买流程耗时（Histogram）
	PurchaseDuration prometheus.Histogram

	// BooksImportedTotal 批量导入的图书总数（Counter）
	BooksImportedTotal prometheus.Counter

	// 缓存指标

	// ReportCacheRequests 报表缓存访问次数（Counter）
	// 标签：report（报表Key）、result（hit/miss/error）
	ReportCacheRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，多次调用只生效一次
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		PurchasesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchases_total",
				Help: "购买请求总数",
			},
			[]string{"result"},
		)

		BooksSoldTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "books_sold_total",
				Help: "售出图书总册数",
			},
		)

		PurchaseDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "purchase_duration_seconds",
				Help:    "购买流程耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		)

		BooksImportedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "books_imported_total",
				Help: "批量导入的图书总数",
			},
		)

		ReportCacheRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_cache_requests_total",
				Help: "报表缓存访问次数",
			},
			[]string{"report", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key", "result"},
		)
	})
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, value float64) {
	counter.Add(value)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
