package repository

import (
	"context"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 轻量行结构 ====================

// RatingRow 列表聚合只需要这两列，不拖评价全文
type RatingRow struct {
	ListingID string
	Rating    int
}

// SellerRatingAgg 按卖家聚合的评价统计 (定时任务用)
type SellerRatingAgg struct {
	SellerID    string
	ReviewCount int64
	AvgRating   float64
}

// ==================== 接口定义 ====================

// ReviewRepository 评价仓储
type ReviewRepository interface {
	// ListRatingsByListingIDs 批量取 (listing_id, rating) 轻量行
	ListRatingsByListingIDs(ctx context.Context, listingIDs []string) ([]RatingRow, error)

	// ListApprovedByListingID 详情页取已审核评价全文，新的在前
	ListApprovedByListingID(ctx context.Context, listingID string) ([]model.Review, error)

	// AggregateBySeller 评价按卖家聚合 (卖家统计重算任务)
	AggregateBySeller(ctx context.Context) ([]SellerRatingAgg, error)
}

// ==================== 仓储实现 ====================

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) ListRatingsByListingIDs(ctx context.Context, listingIDs []string) ([]RatingRow, error) {
	var rows []RatingRow
	if len(listingIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("listing_id", "rating").
		Where("listing_id IN ?", listingIDs).
		Scan(&rows).Error
	return rows, err
}

func (r *reviewRepo) ListApprovedByListingID(ctx context.Context, listingID string) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, model.ReviewStatusApproved).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) AggregateBySeller(ctx context.Context) ([]SellerRatingAgg, error) {
	var aggs []SellerRatingAgg
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("listings.seller_id AS seller_id, COUNT(reviews.id) AS review_count, AVG(reviews.rating) AS avg_rating").
		Joins("JOIN listings ON listings.id = reviews.listing_id").
		Where("reviews.status = ?", model.ReviewStatusApproved).
		Group("listings.seller_id").
		Scan(&aggs).Error
	return aggs, err
}
