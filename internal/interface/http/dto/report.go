package dto

// AuthorCount 作者及其图书数量
type AuthorCount struct {
	Author string `json:"author" example:"威廉·肯尼迪"`
	Count  int64  `json:"count" example:"3"`
}

// TotalStock 全部图书库存总和
type TotalStock struct {
	TotalStock int64 `json:"total_stock" example:"1024"`
}

// BestSeller 畅销书(销量与图书详情)
type BestSeller struct {
	BookID      string  `json:"book_id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	TotalSold   int64   `json:"total_sold" example:"42"`
	Title       string  `json:"title" example:"Go语言实战"`
	Author      string  `json:"author" example:"威廉·肯尼迪"`
	Description string  `json:"description" example:"这是一本关于Go语言的实战书籍"`
	Price       float64 `json:"price" example:"59.9"`
	Stock       int     `json:"stock" example:"100"`
}

// BooksAdded 批量导入结果
type BooksAdded struct {
	BooksAdded int `json:"books_added" example:"100"`
}

// IndexesEnsured 已确保存在的索引
type IndexesEnsured struct {
	Indexes []string `json:"indexes" example:"idx_books_title,idx_books_author"`
}
