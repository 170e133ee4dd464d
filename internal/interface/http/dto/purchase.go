package dto

// PurchaseRequest HTTP购买请求
type PurchaseRequest struct {
	BookID string `json:"book_id" binding:"required" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Name   string `json:"name" binding:"required,max=100" example:"张三"`
	Amount int    `json:"amount" binding:"required,min=1" example:"2"`
}

// PurchaseRejected 库存不足时返回的数据(HTTP 409)
type PurchaseRejected struct {
	Message string `json:"message" example:"库存不足,当前库存:1,需要:2"`
	Stock   int    `json:"stock" example:"1"`
}
