package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/api/dto"
	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/repository"
)

// ==================== 详情聚合 ====================

// GetDetail 单条详情聚合，入参可以是 UUID 也可以是 slug
// 与列表不同：图片/评价拉取失败在这里是硬错误，详情页没有降级展示的余地
// 副作用：浏览数 +1，异步执行不阻塞响应，响应里回显自增前的数值
func (s *ListingService) GetDetail(ctx context.Context, idOrSlug string) (*dto.ListingDetailView, error) {
	listing, err := s.lookupListing(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	// 明细行按外键取，缺失时子类型标记 unknown，详情页不丢行
	var (
		product *model.Product
		service *model.Service
	)
	if listing.ProductID != nil {
		if product, err = s.productRepo.GetByListingID(ctx, listing.ID); err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("query product detail: %w", err)
		}
	}
	if product == nil && listing.ServiceID != nil {
		if service, err = s.serviceRepo.GetByListingID(ctx, listing.ID); err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("query service detail: %w", err)
		}
	}

	// 详情页图片/评价失败直接报错
	images, err := s.imageRepo.ListActiveByListingID(ctx, listing.ID)
	if err != nil {
		return nil, fmt.Errorf("query listing images: %w", err)
	}
	reviews, err := s.reviewRepo.ListApprovedByListingID(ctx, listing.ID)
	if err != nil {
		return nil, fmt.Errorf("query listing reviews: %w", err)
	}

	view := s.buildDetailView(listing, product, service, images, reviews)

	// 浏览数自增：fire-and-forget，丢失或重复都可接受
	listingID := listing.ID
	go func() {
		incCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.listingRepo.IncrementViews(incCtx, listingID); err != nil {
			log.Printf("[ListingService] 浏览数自增失败 listing=%s: %v", listingID, err)
		}
	}()

	return view, nil
}

// lookupListing 36 位 UUID 按 id 查，其余按 slug 查
func (s *ListingService) lookupListing(ctx context.Context, idOrSlug string) (*model.Listing, error) {
	var (
		listing *model.Listing
		err     error
	)
	if isUUID(idOrSlug) {
		listing, err = s.listingRepo.GetByID(ctx, idOrSlug)
	} else {
		listing, err = s.listingRepo.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("query listing: %w", err)
	}
	return listing, nil
}

// buildDetailView 详情装配：复用列表的富化规则，再补完整明细/评价/评分分布
func (s *ListingService) buildDetailView(
	listing *model.Listing,
	product *model.Product,
	service *model.Service,
	images []model.ListingImage,
	reviews []model.Review,
) *dto.ListingDetailView {
	ratings := make([]repository.RatingRow, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, repository.RatingRow{ListingID: r.ListingID, Rating: r.Rating})
	}

	var products []model.Product
	if product != nil {
		products = []model.Product{*product}
	}
	var services []model.Service
	if service != nil {
		services = []model.Service{*service}
	}

	enrichment := newEnrichmentSet(products, services, images, ratings)

	view := &dto.ListingDetailView{
		ListingView:        s.toView(listing, enrichment),
		Images:             make([]dto.ImageView, 0, len(images)),
		Reviews:            make([]dto.ReviewView, 0, len(reviews)),
		RatingDistribution: ratingDistribution(reviews),
	}

	if product != nil {
		view.Product = &dto.ProductDetailView{
			SKU:              product.SKU,
			StockQuantity:    product.StockQuantity,
			DeliveryTimeMin:  product.DeliveryTimeMin,
			DeliveryTimeMax:  product.DeliveryTimeMax,
			DeliveryCost:     product.DeliveryCost,
			ShippingRequired: product.ShippingRequired,
			Weight:           product.Weight,
			Dimensions:       decodeDimensions(product),
		}
	}
	if service != nil {
		view.Service = &dto.ServiceDetailView{
			CompletionTimeMin:  service.CompletionTimeMin,
			CompletionTimeMax:  service.CompletionTimeMax,
			CompletionTimeUnit: service.CompletionTimeUnit,
			Availability:       service.Availability,
			ServiceType:        service.ServiceType,
			ServiceRadiusKm:    service.ServiceRadiusKm,
			TravelCost:         service.TravelCost,
		}
	}

	for _, img := range images {
		view.Images = append(view.Images, dto.ImageView{
			ID:           img.ID,
			ImageURL:     img.ImageURL,
			AltText:      img.AltText,
			DisplayOrder: img.DisplayOrder,
			IsPrimary:    img.IsPrimary,
		})
	}
	for _, r := range reviews {
		view.Reviews = append(view.Reviews, dto.ReviewView{
			ID:        r.ID,
			Rating:    r.Rating,
			Title:     r.Title,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}

	return view
}

// ratingDistribution 1..5 星五档计数，没有评价的档位也要输出 0
func ratingDistribution(reviews []model.Review) map[string]int {
	dist := make(map[string]int, 5)
	for star := 1; star <= 5; star++ {
		dist[strconv.Itoa(star)] = 0
	}
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			dist[strconv.Itoa(r.Rating)]++
		}
	}
	return dist
}

// decodeDimensions 尺寸 JSON 列转 map，解析失败或为空时省略
func decodeDimensions(product *model.Product) map[string]interface{} {
	if len(product.Dimensions) == 0 {
		return nil
	}
	var dims map[string]interface{}
	if err := json.Unmarshal(product.Dimensions, &dims); err != nil {
		return nil
	}
	return dims
}
