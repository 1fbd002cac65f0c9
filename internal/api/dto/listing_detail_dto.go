package dto

import "time"

// ==================== 详情视图 ====================

// ProductDetailView 实物商品完整明细
type ProductDetailView struct {
	SKU              string                 `json:"sku"`
	StockQuantity    int                    `json:"stock_quantity"`
	DeliveryTimeMin  int                    `json:"delivery_time_min"`
	DeliveryTimeMax  int                    `json:"delivery_time_max"`
	DeliveryCost     float64                `json:"delivery_cost"`
	ShippingRequired bool                   `json:"shipping_required"`
	Weight           float64                `json:"weight"`
	Dimensions       map[string]interface{} `json:"dimensions,omitempty"`
}

// ServiceDetailView 服务完整明细
type ServiceDetailView struct {
	CompletionTimeMin  int     `json:"completion_time_min"`
	CompletionTimeMax  int     `json:"completion_time_max"`
	CompletionTimeUnit string  `json:"completion_time_unit"`
	Availability       string  `json:"availability"`
	ServiceType        string  `json:"service_type"`
	ServiceRadiusKm    float64 `json:"service_radius_km"`
	TravelCost         float64 `json:"travel_cost"`
}

// ImageView 详情页完整图片列表
type ImageView struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// ReviewView 详情页评价全文
type ReviewView struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingDetailView 单条详情，在列表视图之上追加完整明细与评价
type ListingDetailView struct {
	ListingView

	Product *ProductDetailView `json:"product,omitempty"`
	Service *ServiceDetailView `json:"service,omitempty"`

	Images  []ImageView  `json:"images"`
	Reviews []ReviewView `json:"reviews"`

	// RatingDistribution 1-5 星各档评价条数，键为 "1".."5"
	RatingDistribution map[string]int `json:"rating_distribution"`
}
