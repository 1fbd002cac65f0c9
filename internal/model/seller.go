package model

// Seller 卖家，列表视图里内嵌其一个去范式化的子集
// Rating / TotalReviews 为冗余统计字段，由定时任务重算
type Seller struct {
	BaseModel
	BusinessName string  `gorm:"size:255;not null" json:"business_name"`
	IsVerified   bool    `gorm:"default:false" json:"is_verified"`
	Rating       float64 `gorm:"default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`
	District     string  `gorm:"size:100" json:"district"`
	Province     string  `gorm:"size:100" json:"province"`
}

func (Seller) TableName() string {
	return "sellers"
}
