package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// CategoryHandler 分类模块 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// CreateCategory 创建分类（管理员）
// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.categorySvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// ListCategories 分类列表
// GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	list, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}
