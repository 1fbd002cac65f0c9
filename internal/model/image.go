package model

// ==================== 图片枚举 ====================

const (
	ImageStatusActive   = "active"
	ImageStatusInactive = "inactive"
)

// ListingImage 挂牌图片
// 约定 DisplayOrder = 0 为主图，IsPrimary 标记优先级更高
// 只有 status = active 的图片参与主图选取
type ListingImage struct {
	BaseModel

	// --- 关联 ---
	ListingID string `gorm:"type:uuid;index;not null" json:"listing_id"`

	// --- 资源 ---
	ImageURL string `gorm:"size:512;not null" json:"image_url"`
	AltText  string `gorm:"size:255" json:"alt_text"`

	// --- 展示控制 ---
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
	IsPrimary    bool   `gorm:"default:false" json:"is_primary"`
	Status       string `gorm:"size:20;index;default:active" json:"status"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}
