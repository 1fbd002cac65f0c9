package repository

import (
	"context"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// SellerRepository 卖家仓储
type SellerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Seller, error)

	// UpdateStats 回写冗余统计字段 (评分 / 评价数)，由定时任务调用
	UpdateStats(ctx context.Context, sellerID string, rating float64, totalReviews int64) error
}

// ==================== 仓储实现 ====================

type sellerRepo struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家仓储
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepo{db: db}
}

func (r *sellerRepo) GetByID(ctx context.Context, id string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepo) UpdateStats(ctx context.Context, sellerID string, rating float64, totalReviews int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Seller{}).
		Where("id = ?", sellerID).
		Updates(map[string]interface{}{
			"rating":        rating,
			"total_reviews": totalReviews,
		}).Error
}
