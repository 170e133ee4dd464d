package mysql

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstock/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 数据库不可达时直接返回错误，进程启动失败
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	// 单条写操作不需要GORM默认包裹的事务,购买流程由TxManager显式开启事务
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	zap.L().Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// 6. 自动迁移表结构（开发环境）
	if cfg.Database.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&TransactionModel{},
	)
}

// BookModel GORM图书模型
// 设计说明:
// 1. 主键为UUID字符串,创建时由BeforeCreate钩子生成
// 2. 价格使用decimal(10,2)存储,读出为float64
// 3. title、author、price上的索引服务于搜索与作者统计
// 4. 物理删除,不使用gorm.DeletedAt
type BookModel struct {
	ID          string    `gorm:"primaryKey;size:36;comment:图书ID(UUID)"`
	Title       string    `gorm:"index:idx_books_title;size:200;not null;comment:书名"`
	Author      string    `gorm:"index:idx_books_author;size:100;not null;comment:作者"`
	Description string    `gorm:"type:text;comment:图书描述"`
	Price       float64   `gorm:"index:idx_books_price;type:decimal(10,2);not null;default:0;comment:价格"`
	Stock       int       `gorm:"not null;default:0;comment:库存数量"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BeforeCreate 分配UUID主键
func (m *BookModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TransactionModel GORM交易记录模型
// 设计说明:
// 1. BookID不建外键约束,图书删除后交易记录保留(孤儿记录由报表内连接忽略)
// 2. book_id索引服务于畅销书聚合
type TransactionModel struct {
	ID        string    `gorm:"primaryKey;size:36;comment:交易ID(UUID)"`
	BookID    string    `gorm:"index:idx_transactions_book_id;size:36;not null;comment:图书ID"`
	Name      string    `gorm:"size:100;not null;default:'';comment:购买人"`
	Amount    int       `gorm:"not null;comment:购买数量"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (TransactionModel) TableName() string {
	return "transactions"
}

// BeforeCreate 分配UUID主键
func (m *TransactionModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
