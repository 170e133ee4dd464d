package dto

// BookRequest HTTP新增/全量更新图书请求
// validator tag说明:
// - required: 必填字段(指针类型只校验是否提供,0是合法值)
// - min/max: 数值与长度范围校验
type BookRequest struct {
	Title       string   `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string   `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Description string   `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
	Price       *float64 `json:"price" binding:"required,min=0,max=99999999.99" example:"59.9"`
	Stock       *int     `json:"stock" binding:"required,min=0" example:"100"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID          string  `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Title       string  `json:"title" example:"Go语言实战"`
	Author      string  `json:"author" example:"威廉·肯尼迪"`
	Description string  `json:"description" example:"这是一本关于Go语言的实战书籍"`
	Price       float64 `json:"price" example:"59.9"`
	Stock       int     `json:"stock" example:"100"`
}

// IDResponse 只返回图书ID的响应(新增、删除)
type IDResponse struct {
	ID string `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
}

// SearchBooksQuery HTTP图书搜索参数
// 仅用于Swagger文档,实际解析见handler.parseSearchQuery(空字符串视为未提供)
type SearchBooksQuery struct {
	Title    string  `form:"title" example:"Go语言实战"`
	Author   string  `form:"author" example:"威廉·肯尼迪"`
	MinPrice float64 `form:"min_price" example:"10"`
	MaxPrice float64 `form:"max_price" example:"100"`
}
