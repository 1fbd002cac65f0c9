package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ListingRepository 挂牌仓储接口
type ListingRepository interface {
	// 列表查询 (Seller/Category 内连接，缺任一方的脏数据直接排除)
	List(ctx context.Context, filter ListingFilter) ([]model.Listing, error)

	// 详情查询
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.Listing, error)

	// 浏览数自增 (详情页副作用，不参与事务)
	IncrementViews(ctx context.Context, id string) error
}

// ==================== 过滤条件 ====================

// ListingFilter 挂牌过滤条件，由上层从 FilterSpec 映射而来
// 零值字段一律视为"未提供"，不参与谓词拼接
type ListingFilter struct {
	CategoryID string
	District   string
	Province   string
	MinPrice   float64
	MaxPrice   float64
	Keyword    string
	Status     string // 永远参与过滤，上层保证非空
	Featured   *bool

	// Subtype 子类型过滤：product / service，按外键非空判断
	Subtype string

	// CreatedAfter 上架时间窗口下界 (新品接口)
	CreatedAfter time.Time

	// 子类型专属过滤，走明细表 EXISTS 子查询
	InStock      *bool
	ServiceType  string
	Availability string

	// 分页与排序
	Page    int
	Limit   int
	OrderBy string // 默认 listings.created_at DESC
}

// ==================== 仓储实现 ====================

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建挂牌仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

// buildQuery 把过滤条件翻译成 AND 谓词链
func (r *listingRepo) buildQuery(ctx context.Context, filter ListingFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		InnerJoins("Seller").
		InnerJoins("Category")

	// status 永远参与过滤
	query = query.Where("listings.status = ?", filter.Status)

	if filter.CategoryID != "" {
		query = query.Where("listings.category_id = ?", filter.CategoryID)
	}
	if filter.District != "" {
		query = query.Where("listings.district = ?", filter.District)
	}
	if filter.Province != "" {
		query = query.Where("listings.province = ?", filter.Province)
	}
	// 价格为 0 视为未提供，沿用历史行为
	if filter.MinPrice > 0 {
		query = query.Where("listings.base_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("listings.base_price <= ?", filter.MaxPrice)
	}
	if filter.Keyword != "" {
		// LOWER + LIKE 在 postgres / sqlite 上行为一致
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"LOWER(listings.name) LIKE LOWER(?) OR LOWER(listings.description) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if filter.Featured != nil {
		query = query.Where("listings.featured = ?", *filter.Featured)
	}
	if !filter.CreatedAfter.IsZero() {
		query = query.Where("listings.created_at >= ?", filter.CreatedAfter)
	}

	// 子类型按外键非空判断
	switch filter.Subtype {
	case model.ListingTypeProduct:
		query = query.Where("listings.product_id IS NOT NULL")
	case model.ListingTypeService:
		query = query.Where("listings.service_id IS NOT NULL")
	}

	// 子类型专属过滤走明细表子查询
	if filter.InStock != nil && *filter.InStock {
		query = query.Where(
			"EXISTS (SELECT 1 FROM products p WHERE p.listing_id = listings.id AND p.stock_quantity > 0)")
	}
	if filter.ServiceType != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM services s WHERE s.listing_id = listings.id AND s.service_type = ?)",
			filter.ServiceType)
	}
	if filter.Availability != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM services s WHERE s.listing_id = listings.id AND s.availability = ?)",
			filter.Availability)
	}

	return query
}

func (r *listingRepo) List(ctx context.Context, filter ListingFilter) ([]model.Listing, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "listings.created_at DESC"
	}

	var listings []model.Listing
	offset := (filter.Page - 1) * filter.Limit
	err := r.buildQuery(ctx, filter).
		Order(orderBy).
		Limit(filter.Limit).
		Offset(offset).
		Find(&listings).Error

	return listings, err
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).
		InnerJoins("Seller").
		InnerJoins("Category").
		Where("listings.id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).
		InnerJoins("Seller").
		InnerJoins("Category").
		Where("listings.slug = ?", slug).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}
