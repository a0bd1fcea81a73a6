package services

import (
	"errors"
	"fmt"

	"github.com/ForumHub/ForumHub-backend/internal/database"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"gorm.io/gorm"
)

// CategoryService 结构体，用于封装与分类相关的数据库操作和业务逻辑
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建并返回一个新的 CategoryService 实例
func NewCategoryService() *CategoryService {
	return &CategoryService{
		db: database.GetDB(),
	}
}

// GetCategories 获取全部分类，按 display_order 正序，同序按名称
func (s *CategoryService) GetCategories() ([]models.CategoryResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("display_order, name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	result := []models.CategoryResponse{}
	for i := range categories {
		result = append(result, categories[i].ToResponse())
	}
	return result, nil
}

// CreateCategory 创建分类（管理员操作），分类名唯一
func (s *CategoryService) CreateCategory(req *models.CategoryCreateRequest) (*models.CategoryResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	category := &models.Category{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("category name already exists: %s", req.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	response := category.ToResponse()
	return &response, nil
}

// UpdateCategory 更新分类（管理员操作）
func (s *CategoryService) UpdateCategory(id uint, req *models.CategoryUpdateRequest) (*models.CategoryResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("category name already exists: %s", req.Name)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	response := category.ToResponse()
	return &response, nil
}

// DeleteCategory 删除分类（管理员操作）。主题以分类名冗余引用分类，
// 既有主题的分类名保持原值，不做级联改写
func (s *CategoryService) DeleteCategory(id uint) error {
	if s.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	result := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("category not found")
	}
	return nil
}
