package model

// ==================== 服务枚举 ====================

// ServiceAvailability 服务可预约状态
const (
	ServiceAvailabilityOnDemand    = "on_demand"
	ServiceAvailabilityScheduled   = "scheduled"
	ServiceAvailabilityUnavailable = "unavailable"
)

// ServiceType 服务履约方式
const (
	ServiceTypeOnSite = "on_site"
	ServiceTypeRemote = "remote"
	ServiceTypeHybrid = "hybrid"
)

// Service 服务明细，与 Listing 一对一 (subtype=service)
type Service struct {
	BaseModel

	// --- 关联 ---
	ListingID string `gorm:"type:uuid;uniqueIndex;not null" json:"listing_id"`

	// --- 完成时效 ---
	CompletionTimeMin  int    `gorm:"default:0" json:"completion_time_min"`
	CompletionTimeMax  int    `gorm:"default:0" json:"completion_time_max"`
	CompletionTimeUnit string `gorm:"size:20;default:days" json:"completion_time_unit"` // hours, days, weeks

	// --- 预约与履约 ---
	Availability string `gorm:"size:20;default:on_demand" json:"availability"`
	ServiceType  string `gorm:"size:20;default:on_site" json:"service_type"`

	// --- 上门范围 ---
	ServiceRadiusKm float64 `gorm:"default:0" json:"service_radius_km"`
	TravelCost      float64 `gorm:"default:0" json:"travel_cost"`
}

func (Service) TableName() string {
	return "services"
}
