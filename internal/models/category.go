package models

import (
	"time"
)

// Category 对应数据库中的 'categories' 表
//
// 主题通过分类名冗余引用分类，列表查询不做分类表联查。
type Category struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"` // 分类名，唯一
	Description  string    `json:"description" gorm:"type:varchar(500)"`               // 分类描述
	DisplayOrder int       `json:"display_order" gorm:"default:0"`                     // 展示排序，小的在前
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryResponse 用于向前端返回分类信息
type CategoryResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
}

// CategoryCreateRequest 创建分类请求体
type CategoryCreateRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Description  string `json:"description" binding:"omitempty,max=500"`
	DisplayOrder int    `json:"displayOrder"`
}

// CategoryUpdateRequest 更新分类请求体
type CategoryUpdateRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=100"`
	Description  string `json:"description" binding:"omitempty,max=500"`
	DisplayOrder *int   `json:"displayOrder"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
	}
}

func (Category) TableName() string {
	return "categories"
}
