package service

import (
	"math"

	"bazaar_dev_v1_202608/internal/api/dto"
	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/repository"
)

// ==================== 富化查找表 ====================

// enrichmentSet 把二级关系整理成按 listing_id 索引的纯内存查找表
// 一次请求构建一次，构建后只读，多处复用同一套派生规则
type enrichmentSet struct {
	products map[string]*model.Product
	services map[string]*model.Service
	images   map[string][]model.ListingImage
	ratings  map[string][]int
}

// newEnrichmentSet 由四个二级集合构建查找表
func newEnrichmentSet(
	products []model.Product,
	services []model.Service,
	images []model.ListingImage,
	ratings []repository.RatingRow,
) *enrichmentSet {
	set := &enrichmentSet{
		products: make(map[string]*model.Product, len(products)),
		services: make(map[string]*model.Service, len(services)),
		images:   make(map[string][]model.ListingImage),
		ratings:  make(map[string][]int),
	}

	for i := range products {
		set.products[products[i].ListingID] = &products[i]
	}
	for i := range services {
		set.services[services[i].ListingID] = &services[i]
	}
	// 图片保持取回顺序，主图兜底规则依赖这一点
	for _, img := range images {
		set.images[img.ListingID] = append(set.images[img.ListingID], img)
	}
	for _, row := range ratings {
		set.ratings[row.ListingID] = append(set.ratings[row.ListingID], row.Rating)
	}

	return set
}

// ==================== 主图选取 ====================

// PrimaryImage 主图选取规则：
// 1. 优先取 is_primary 标记的图片 (与取回顺序无关)
// 2. 没有标记则取集合里的第一张
// 3. 一张都没有返回 nil
func (e *enrichmentSet) PrimaryImage(listingID string) *dto.PrimaryImageView {
	images := e.images[listingID]
	if len(images) == 0 {
		return nil
	}

	chosen := &images[0]
	for i := range images {
		if images[i].IsPrimary {
			chosen = &images[i]
			break
		}
	}

	return &dto.PrimaryImageView{
		URL:     chosen.ImageURL,
		AltText: chosen.AltText,
	}
}

// ==================== 评价汇总 ====================

// ReviewSummary 评价条数与平均分，平均分保留两位小数，无评价时为 0
func (e *enrichmentSet) ReviewSummary(listingID string) dto.ReviewSummary {
	ratings := e.ratings[listingID]
	if len(ratings) == 0 {
		return dto.ReviewSummary{Count: 0, Average: 0}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	return dto.ReviewSummary{
		Count:   len(ratings),
		Average: round2(float64(sum) / float64(len(ratings))),
	}
}

// ==================== 时效与可售信息 ====================

// TimeAndAvailability 按子类型分叉派生时效/可售信息
// product 优先于 service (正常数据二者不会同时存在)，都没有则标记 unknown
func (e *enrichmentSet) TimeAndAvailability(listingID string) (string, *dto.TimeInfo, *dto.AvailabilityInfo) {
	if p, ok := e.products[listingID]; ok {
		available := p.StockQuantity > 0
		quantity := p.StockQuantity
		return model.ListingTypeProduct,
			&dto.TimeInfo{
				Type: "delivery",
				Min:  p.DeliveryTimeMin,
				Max:  p.DeliveryTimeMax,
				Unit: "days",
			},
			&dto.AvailabilityInfo{
				Type:      model.ListingTypeProduct,
				Quantity:  &quantity,
				Available: &available,
			}
	}

	if s, ok := e.services[listingID]; ok {
		return model.ListingTypeService,
			&dto.TimeInfo{
				Type: "completion",
				Min:  s.CompletionTimeMin,
				Max:  s.CompletionTimeMax,
				Unit: s.CompletionTimeUnit,
			},
			&dto.AvailabilityInfo{
				Type:         model.ListingTypeService,
				Availability: s.Availability,
				ServiceType:  s.ServiceType,
			}
	}

	return model.ListingTypeUnknown, nil, nil
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
