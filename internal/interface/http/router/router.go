package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookstock/internal/interface/http/handler"
	"github.com/xiebiao/bookstock/internal/interface/http/middleware"
	"github.com/xiebiao/bookstock/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Book     *handler.BookHandler
	Purchase *handler.PurchaseHandler
	Report   *handler.ReportHandler
	Dev      *handler.DevHandler
}

// Options 路由选项
type Options struct {
	Mode          string // debug | release | test
	EnableSwagger bool
}

// New 创建Gin引擎并注册全部路由
// 中间件顺序:Recovery → Logger(请求ID、Span) → Metrics
func New(opts Options, h Handlers) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger(), middleware.Metrics())

	// 基础设施路由
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 图书
	books := r.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.POST("", h.Book.CreateBook)
		books.GET("/:id", h.Book.GetBook)
		books.PUT("/:id", h.Book.UpdateBook)
		books.DELETE("/:id", h.Book.DeleteBook)
	}
	r.GET("/search", h.Book.SearchBooks)

	// 购买
	r.PUT("/purchase", h.Purchase.Purchase)

	// 报表
	r.GET("/top-5-authors", h.Report.TopAuthors)
	r.GET("/total-stock", h.Report.TotalStock)
	r.GET("/bestselling", h.Report.BestSelling)

	// 开发辅助
	r.POST("/add-books", h.Dev.AddBooks)
	r.POST("/create-indexes", h.Dev.CreateIndexes)

	return r
}
