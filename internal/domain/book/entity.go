package book

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxPrice 价格上限,与books.price列decimal(10,2)的取值范围一致
const MaxPrice = 99999999.99

// Book 图书实体(聚合根)
// 设计说明:
// 1. ID由存储层在创建时分配(UUID字符串),对业务没有含义
// 2. 价格为[0, MaxPrice]内最多两位小数的数值,库存为非负整数
// 3. 库存只能通过购买流程的条件扣减减少,保证永不为负
type Book struct {
	ID          string
	Title       string  // 书名
	Author      string  // 作者
	Description string  // 图书描述
	Price       float64 // 价格
	Stock       int     // 库存数量
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
// 业务规则:价格>=0,库存>=0
func NewBook(title, author, description string, price float64, stock int) (*Book, error) {
	if err := validateAttributes(price, stock); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Book{
		Title:       title,
		Author:      author,
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Replace 全量替换除ID以外的字段(PUT语义,不做部分合并)
func (b *Book) Replace(title, author, description string, price float64, stock int) error {
	if err := validateAttributes(price, stock); err != nil {
		return err
	}

	b.Title = title
	b.Author = author
	b.Description = description
	b.Price = price
	b.Stock = stock
	b.UpdatedAt = time.Now()
	return nil
}

// CanFulfil 判断当前库存能否满足购买数量
// 购买恰好等于剩余库存时允许(库存清零)
func (b *Book) CanFulfil(amount int) bool {
	return amount > 0 && amount <= b.Stock
}

// ValidateID 校验图书ID格式
// 格式不合法与"合法但不存在"需要区分:前者返回ErrInvalidID,后者由仓储返回ErrBookNotFound
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func validateAttributes(price float64, stock int) error {
	if !validPrice(price) {
		return ErrInvalidPrice
	}
	if stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// validPrice 价格在[0, MaxPrice]内且最多两位小数
// 两位小数的价格存入decimal(10,2)后读出不变
func validPrice(price float64) bool {
	if math.IsNaN(price) || price < 0 || price > MaxPrice {
		return false
	}
	return math.Round(price*100)/100 == price
}
