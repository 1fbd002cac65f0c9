package repository

import (
	"context"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// CategoryRepository 分类仓储
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
}

// ==================== 仓储实现 ====================

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
