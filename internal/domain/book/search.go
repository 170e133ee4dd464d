package book

import "math"

// SearchCriteria 图书搜索条件
// 设计说明:
// 1. 所有条件均为可选,使用指针区分"未提供"与"零值"
// 2. min_price=0 是合法条件(价格>=0),不能因为是零值被丢弃
// 3. 多个条件之间为AND关系;没有任何条件时匹配全部图书
type SearchCriteria struct {
	Title    *string  // 书名(精确匹配)
	Author   *string  // 作者(精确匹配)
	MinPrice *float64 // 最低价格(含)
	MaxPrice *float64 // 最高价格(含)
}

// Operator 比较运算符
type Operator string

const (
	OpEq  Operator = "="
	OpGte Operator = ">="
	OpLte Operator = "<="
)

// Condition 单个过滤条件
// Field为存储层列名,由本包固定给出,不来自用户输入
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

// Validate 校验搜索条件
// 价格条件只要求是有限数值,负数或min>max照常参与比较
func (c SearchCriteria) Validate() error {
	for _, p := range []*float64{c.MinPrice, c.MaxPrice} {
		if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return ErrInvalidSearchPrice
		}
	}
	return nil
}

// Conditions 将搜索条件转换为有序的过滤条件列表
// 顺序固定:title、author、min_price、max_price
func (c SearchCriteria) Conditions() []Condition {
	conds := make([]Condition, 0, 4)
	if c.Title != nil {
		conds = append(conds, Condition{Field: "title", Op: OpEq, Value: *c.Title})
	}
	if c.Author != nil {
		conds = append(conds, Condition{Field: "author", Op: OpEq, Value: *c.Author})
	}
	if c.MinPrice != nil {
		conds = append(conds, Condition{Field: "price", Op: OpGte, Value: *c.MinPrice})
	}
	if c.MaxPrice != nil {
		conds = append(conds, Condition{Field: "price", Op: OpLte, Value: *c.MaxPrice})
	}
	return conds
}

// Matches 判断图书是否满足全部条件(内存存储使用)
func (c SearchCriteria) Matches(b *Book) bool {
	if c.Title != nil && b.Title != *c.Title {
		return false
	}
	if c.Author != nil && b.Author != *c.Author {
		return false
	}
	if c.MinPrice != nil && b.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && b.Price > *c.MaxPrice {
		return false
	}
	return true
}
