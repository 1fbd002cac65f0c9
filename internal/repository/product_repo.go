package repository

import (
	"context"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 实物商品明细仓储
type ProductRepository interface {
	// ListByListingIDs 按挂牌 ID 批量取明细 (列表富化用)
	ListByListingIDs(ctx context.Context, listingIDs []string) ([]model.Product, error)

	// GetByListingID 按挂牌 ID 取单条明细 (详情页用)
	GetByListingID(ctx context.Context, listingID string) (*model.Product, error)
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品明细仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) ListByListingIDs(ctx context.Context, listingIDs []string) ([]model.Product, error) {
	var products []model.Product
	if len(listingIDs) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Find(&products).Error
	return products, err
}

func (r *productRepo) GetByListingID(ctx context.Context, listingID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
