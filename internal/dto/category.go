package dto

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
