package model

import (
	"gorm.io/datatypes"
)

// Product 实物商品明细，与 Listing 一对一 (subtype=product)
type Product struct {
	BaseModel

	// --- 关联 ---
	ListingID string `gorm:"type:uuid;uniqueIndex;not null" json:"listing_id"`

	// --- 库存 ---
	SKU           string `gorm:"size:100;index" json:"sku"`
	StockQuantity int    `gorm:"default:0" json:"stock_quantity"`

	// --- 配送 ---
	DeliveryTimeMin  int     `gorm:"default:0" json:"delivery_time_min"` // 单位: 天
	DeliveryTimeMax  int     `gorm:"default:0" json:"delivery_time_max"`
	DeliveryCost     float64 `gorm:"default:0" json:"delivery_cost"`
	ShippingRequired bool    `gorm:"default:true" json:"shipping_required"`

	// --- 物理属性 ---
	Weight     float64        `gorm:"default:0" json:"weight"` // kg
	Dimensions datatypes.JSON `json:"dimensions"`              // {"length":..,"width":..,"height":..,"unit":"cm"}
}

func (Product) TableName() string {
	return "products"
}
