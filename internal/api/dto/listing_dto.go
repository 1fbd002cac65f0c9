package dto

import (
	"errors"
)

// ==================== 过滤参数 ====================

// ErrInvalidFilter 过滤参数经过兜底转换后仍不可用 (如 limit 为负数)
var ErrInvalidFilter = errors.New("invalid filter parameters")

// FilterSpec 列表查询的归一化过滤/分页参数
// HTTP 层负责把松散的 query string 转换成本结构，转换失败的字段回退默认值
type FilterSpec struct {
	// --- 基础过滤 ---
	CategoryID   string  `json:"category_id"`
	CategorySlug string  `json:"category_slug"` // "all" 表示不过滤分类
	District     string  `json:"district"`
	Province     string  `json:"province"`
	MinPrice     float64 `json:"min_price"` // 0 视为未提供 (历史行为，见 DESIGN.md)
	MaxPrice     float64 `json:"max_price"`
	Search       string  `json:"search"`
	Status       string  `json:"status"` // 默认 active，永远参与过滤
	Featured     *bool   `json:"featured"`

	// --- 子类型 ---
	Subtype string `json:"subtype"` // "product" / "service" / 空
	// RequireDetail 子类型专属端点置位：明细缺失的行直接剔除
	// 通用列表即使带了 listing_type 过滤，也只把这种行标成 unknown，不丢
	RequireDetail bool `json:"-"`
	DaysBack      int  `json:"days_back"`

	// --- 子类型专属过滤 ---
	InStock      *bool  `json:"in_stock"`      // 仅 products 端点
	ServiceType  string `json:"service_type"`  // 仅 services 端点
	Availability string `json:"availability"`  // 仅 services 端点

	// --- 分页 ---
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize 应用默认值并校验
// 宽松策略：能兜底的一律兜底，只有真正不可用的输入才报错
func (f *FilterSpec) Normalize() error {
	if f.Limit < 0 {
		return ErrInvalidFilter
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Status == "" {
		f.Status = "active"
	}
	return nil
}

// ==================== 视图模型 ====================

// CategoryView 分类子集
type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SellerView 卖家子集，内嵌到每条列表记录
type SellerView struct {
	ID           string  `json:"id"`
	BusinessName string  `json:"business_name"`
	IsVerified   bool    `json:"is_verified"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
	District     string  `json:"district"`
	Province     string  `json:"province"`
}

// PrimaryImageView 主图，无可用图片时整体为 null
type PrimaryImageView struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

// ReviewSummary 评价汇总，Average 保留两位小数，无评价时为 0
type ReviewSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// TimeInfo 时效信息，按子类型分叉
// product -> {type:"delivery", unit:"days"}
// service -> {type:"completion", unit:服务自带单位}
type TimeInfo struct {
	Type string `json:"type"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Unit string `json:"unit"`
}

// AvailabilityInfo 可售/可约信息，按子类型分叉
type AvailabilityInfo struct {
	Type string `json:"type"`
	// product 分支
	Quantity  *int  `json:"quantity,omitempty"`
	Available *bool `json:"available,omitempty"`
	// service 分支
	Availability string `json:"availability,omitempty"`
	ServiceType  string `json:"service_type,omitempty"`
}

// ListingView 列表接口返回的扁平视图
type ListingView struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Category         CategoryView      `json:"category"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	BasePrice        float64           `json:"base_price"`
	DiscountedPrice  *float64          `json:"discounted_price"`
	Currency         string            `json:"currency"`
	Location         string            `json:"location"`
	District         string            `json:"district"`
	Province         string            `json:"province"`
	Featured         bool              `json:"featured"`
	Tags             []string          `json:"tags"`
	ViewsCount       int               `json:"views_count"`
	PrimaryImage     *PrimaryImageView `json:"primary_image"`
	Seller           SellerView        `json:"seller"`
	ReviewSummary    ReviewSummary     `json:"review_summary"`
	TimeInfo         *TimeInfo         `json:"time_info"`
	AvailabilityInfo *AvailabilityInfo `json:"availability_info"`
	ListingType      string            `json:"listing_type"`
}

// ==================== 分页与集合 ====================

// Pagination 分页回显
// Total 为本页返回条数而非全量匹配数，沿用历史行为 (见 DESIGN.md)
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// DateRange 新品接口附带的时间窗口回显
type DateRange struct {
	DaysBack int    `json:"days_back"`
	FromDate string `json:"from_date"` // ISO-8601
	ToDate   string `json:"to_date"`
}

// ListingCollection 聚合服务的标准输出
type ListingCollection struct {
	Items      []ListingView `json:"items"`
	Pagination Pagination    `json:"pagination"`
}
