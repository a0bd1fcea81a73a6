package api

import (
	"strings"

	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/services"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// CategoryHandler 结构体，用于封装与分类相关的 HTTP 请求处理逻辑
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler 创建并返回一个新的 CategoryHandler 实例
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{
		categoryService: services.NewCategoryService(),
	}
}

// GetCategories 获取全部分类，按展示顺序排列
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, categories)
}

// CreateCategory 创建分类（管理员功能）
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		if strings.HasPrefix(err.Error(), "category name already exists") {
			utils.Conflict(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, category)
}

// UpdateCategory 更新分类（管理员功能）
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(id, &req)
	if err != nil {
		switch {
		case err.Error() == "category not found":
			utils.NotFound(c, err.Error())
		case strings.HasPrefix(err.Error(), "category name already exists"):
			utils.Conflict(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, category)
}

// DeleteCategory 删除分类（管理员功能），既有主题的分类名保持原值
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		if err.Error() == "category not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"message": "Category deleted successfully"})
}
