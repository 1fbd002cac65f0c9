package repository

import (
	"context"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ImageRepository 挂牌图片仓储
type ImageRepository interface {
	// ListActiveByListingIDs 批量取 active 图片 (主图选取只看 active)
	ListActiveByListingIDs(ctx context.Context, listingIDs []string) ([]model.ListingImage, error)

	// ListActiveByListingID 详情页完整图片列表，按展示顺序
	ListActiveByListingID(ctx context.Context, listingID string) ([]model.ListingImage, error)

	// ListActive 全量 active 图片 (巡检任务用)
	ListActive(ctx context.Context, limit int) ([]model.ListingImage, error)

	// UpdateStatus 翻转图片状态
	UpdateStatus(ctx context.Context, id string, status string) error
}

// ==================== 仓储实现 ====================

type imageRepo struct {
	db *gorm.DB
}

// NewImageRepository 创建图片仓储
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) ListActiveByListingIDs(ctx context.Context, listingIDs []string) ([]model.ListingImage, error) {
	var images []model.ListingImage
	if len(listingIDs) == 0 {
		return images, nil
	}
	err := r.db.WithContext(ctx).
		Where("listing_id IN ? AND status = ?", listingIDs, model.ImageStatusActive).
		Find(&images).Error
	return images, err
}

func (r *imageRepo) ListActiveByListingID(ctx context.Context, listingID string) ([]model.ListingImage, error) {
	var images []model.ListingImage
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, model.ImageStatusActive).
		Order("display_order ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepo) ListActive(ctx context.Context, limit int) ([]model.ListingImage, error) {
	var images []model.ListingImage
	query := r.db.WithContext(ctx).
		Where("status = ?", model.ImageStatusActive)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&images).Error
	return images, err
}

func (r *imageRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.ListingImage{}).
		Where("id = ?", id).
		Update("status", status).Error
}
