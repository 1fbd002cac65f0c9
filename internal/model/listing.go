package model

import (
	"github.com/lib/pq"
)

// ==================== 状态枚举 ====================

// ListingStatus 商品/服务发布状态
type ListingStatus = string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusActive    ListingStatus = "active"
	ListingStatusInactive  ListingStatus = "inactive"
	ListingStatusRemoved   ListingStatus = "removed"
	ListingStatusSuspended ListingStatus = "suspended"
)

// ListingType 子类型标识 (视图层用)
const (
	ListingTypeProduct = "product"
	ListingTypeService = "service"
	ListingTypeUnknown = "unknown"
)

// ==================== Listing 模型 ====================

// Listing 通用挂牌记录：实物商品和服务共用一张基础表
// 子类型由 product_id / service_id 外键区分，二者有且只有一个非空
type Listing struct {
	BaseModel

	// --- 归属 ---
	SellerID   string    `gorm:"type:uuid;index;not null" json:"seller_id"`
	Seller     *Seller   `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID string    `gorm:"type:uuid;index;not null" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// --- 基本信息 ---
	Name             string `gorm:"size:255;not null" json:"name"`
	Slug             string `gorm:"size:255;uniqueIndex" json:"slug"`
	Description      string `gorm:"type:text" json:"description"`
	ShortDescription string `gorm:"size:500" json:"short_description"`

	// --- 价格 ---
	// DiscountedPrice 有值时应小于 BasePrice，由录入侧保证，查询侧不做校验
	BasePrice       float64  `gorm:"not null" json:"base_price"`
	DiscountedPrice *float64 `json:"discounted_price"`
	Currency        string   `gorm:"size:5;default:NPR" json:"currency"`

	// --- 地理位置 ---
	Location string `gorm:"size:255" json:"location"`
	District string `gorm:"size:100;index" json:"district"`
	Province string `gorm:"size:100;index" json:"province"`

	// --- 运营字段 ---
	Status     ListingStatus  `gorm:"size:20;index;default:active" json:"status"`
	Featured   bool           `gorm:"default:false" json:"featured"`
	ViewsCount int            `gorm:"default:0" json:"views_count"`
	Tags       pq.StringArray `gorm:"type:text[]" json:"tags"`

	// --- 子类型外键 (互斥，正常数据恰好一个非空) ---
	ProductID *string `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ServiceID *string `gorm:"type:uuid;index" json:"service_id,omitempty"`

	// --- 关联关系 ---
	Images []ListingImage `gorm:"foreignKey:ListingID" json:"images,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}

// ==================== Category 模型 ====================

// Category 商品分类，每个挂牌恰好属于一个分类
type Category struct {
	BaseModel
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex" json:"slug"`
}

func (Category) TableName() string {
	return "categories"
}
