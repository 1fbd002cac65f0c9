package model

// ==================== 评价枚举 ====================

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review 买家评价，Rating 为 1-5 整数星级
// 列表聚合只用到 listing_id + rating 两列，详情页才取全文
type Review struct {
	BaseModel

	// --- 关联 ---
	ListingID string `gorm:"type:uuid;index;not null" json:"listing_id"`
	UserID    string `gorm:"type:uuid;index" json:"user_id"`

	// --- 内容 ---
	Rating  int    `gorm:"not null" json:"rating"`
	Title   string `gorm:"size:255" json:"title"`
	Comment string `gorm:"type:text" json:"comment"`
	Status  string `gorm:"size:20;index;default:pending" json:"status"`
}

func (Review) TableName() string {
	return "reviews"
}
