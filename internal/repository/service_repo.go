package repository

import (
	"context"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ServiceRepository 服务明细仓储
type ServiceRepository interface {
	ListByListingIDs(ctx context.Context, listingIDs []string) ([]model.Service, error)
	GetByListingID(ctx context.Context, listingID string) (*model.Service, error)
}

// ==================== 仓储实现 ====================

type serviceRepo struct {
	db *gorm.DB
}

// NewServiceRepository 创建服务明细仓储
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) ListByListingIDs(ctx context.Context, listingIDs []string) ([]model.Service, error) {
	var services []model.Service
	if len(listingIDs) == 0 {
		return services, nil
	}
	err := r.db.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Find(&services).Error
	return services, err
}

func (r *serviceRepo) GetByListingID(ctx context.Context, listingID string) (*model.Service, error) {
	var service model.Service
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}
