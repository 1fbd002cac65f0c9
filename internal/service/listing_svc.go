package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/api/dto"
	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/repository"
	"bazaar_dev_v1_202608/pkg/utils"
)

// ==================== 错误定义 ====================

var (
	// ErrListingNotFound 按 id / slug 查不到挂牌
	ErrListingNotFound = errors.New("listing not found")
)

// 分类缓存有效期，分类基本不变，短 TTL 足够
const categoryCacheTTL = 5 * time.Minute

// ==================== 服务定义 ====================

// ListingService 挂牌聚合服务
// 列表链路：过滤参数 -> 谓词 -> 基础页 -> 并发取二级关系 -> 内存富化 -> 装配视图
// 四个列表端点共用同一条链路，只在初始过滤参数上有差别
type ListingService struct {
	listingRepo  repository.ListingRepository
	productRepo  repository.ProductRepository
	serviceRepo  repository.ServiceRepository
	imageRepo    repository.ImageRepository
	reviewRepo   repository.ReviewRepository
	categoryRepo repository.CategoryRepository
}

// NewListingService 创建聚合服务
func NewListingService(
	listingRepo repository.ListingRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	imageRepo repository.ImageRepository,
	reviewRepo repository.ReviewRepository,
	categoryRepo repository.CategoryRepository,
) *ListingService {
	return &ListingService{
		listingRepo:  listingRepo,
		productRepo:  productRepo,
		serviceRepo:  serviceRepo,
		imageRepo:    imageRepo,
		reviewRepo:   reviewRepo,
		categoryRepo: categoryRepo,
	}
}

// ==================== 列表聚合 ====================

// List 执行一次完整的列表聚合
// 基础查询失败整体报错；二级关系失败降级为空集，宁可少展示也不整页报错
func (s *ListingService) List(ctx context.Context, spec dto.FilterSpec) (*dto.ListingCollection, error) {
	if err := spec.Normalize(); err != nil {
		return nil, err
	}

	filter, empty, err := s.buildFilter(ctx, spec)
	if err != nil {
		return nil, err
	}
	// 分类 slug 查不到时不报错，直接回空页
	if empty {
		return emptyCollection(spec), nil
	}

	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	if len(listings) == 0 {
		return emptyCollection(spec), nil
	}

	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}

	enrichment, err := s.fetchRelated(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch related sets: %w", err)
	}

	// 只有子类型专属端点丢弃明细缺失的脏行，通用端点原样输出
	items := s.assemble(listings, enrichment, spec.RequireDetail)

	return &dto.ListingCollection{
		Items: items,
		Pagination: dto.Pagination{
			Page:  spec.Page,
			Limit: spec.Limit,
			Total: len(items),
		},
	}, nil
}

// ListNewArrivals 新品窗口查询，额外回显时间范围
func (s *ListingService) ListNewArrivals(ctx context.Context, spec dto.FilterSpec) (*dto.ListingCollection, *dto.DateRange, error) {
	if spec.DaysBack <= 0 {
		spec.DaysBack = 30
	}

	collection, err := s.List(ctx, spec)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	dateRange := &dto.DateRange{
		DaysBack: spec.DaysBack,
		FromDate: now.AddDate(0, 0, -spec.DaysBack).Format(time.RFC3339),
		ToDate:   now.Format(time.RFC3339),
	}

	return collection, dateRange, nil
}

// buildFilter 把 FilterSpec 映射成仓储层过滤条件
// 返回 empty=true 表示分类 slug 无法解析，上层应直接回空页
func (s *ListingService) buildFilter(ctx context.Context, spec dto.FilterSpec) (repository.ListingFilter, bool, error) {
	filter := repository.ListingFilter{
		CategoryID:   spec.CategoryID,
		District:     spec.District,
		Province:     spec.Province,
		MinPrice:     spec.MinPrice,
		MaxPrice:     spec.MaxPrice,
		Keyword:      spec.Search,
		Status:       spec.Status,
		Featured:     spec.Featured,
		Subtype:      spec.Subtype,
		InStock:      spec.InStock,
		ServiceType:  spec.ServiceType,
		Availability: spec.Availability,
		Page:         spec.Page,
		Limit:        spec.Limit,
	}

	if spec.DaysBack > 0 {
		filter.CreatedAfter = time.Now().UTC().AddDate(0, 0, -spec.DaysBack)
	}

	// slug = "all" 表示跳过分类过滤，区别于未传分类
	if spec.CategorySlug != "" && spec.CategorySlug != "all" {
		category, err := s.resolveCategory(ctx, spec.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return filter, true, nil
			}
			return filter, false, fmt.Errorf("resolve category: %w", err)
		}
		filter.CategoryID = category.ID
	}

	return filter, false, nil
}

// resolveCategory slug -> 分类，带短 TTL 内存缓存
func (s *ListingService) resolveCategory(ctx context.Context, slug string) (*model.Category, error) {
	cacheKey := "category:slug:" + slug
	if cached, ok := utils.GetCache(cacheKey); ok {
		if category, ok := cached.(*model.Category); ok {
			return category, nil
		}
	}

	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	utils.SetCache(cacheKey, category, categoryCacheTTL)
	return category, nil
}

// ==================== 二级关系并发拉取 ====================

// fetchRelated 并发拉取四个互不依赖的二级集合
// 任何一路失败都降级为空集并记日志，不中断整页
// 调用方取消是例外：半成品页不能往外发，直接报错
func (s *ListingService) fetchRelated(ctx context.Context, listingIDs []string) (*enrichmentSet, error) {
	var (
		products []model.Product
		services []model.Service
		images   []model.ListingImage
		ratings  []repository.RatingRow
	)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		var err error
		if products, err = s.productRepo.ListByListingIDs(ctx, listingIDs); err != nil {
			log.Printf("[ListingService] 商品明细拉取失败，降级为空集: %v", err)
			products = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		if services, err = s.serviceRepo.ListByListingIDs(ctx, listingIDs); err != nil {
			log.Printf("[ListingService] 服务明细拉取失败，降级为空集: %v", err)
			services = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		if images, err = s.imageRepo.ListActiveByListingIDs(ctx, listingIDs); err != nil {
			log.Printf("[ListingService] 图片拉取失败，降级为空集: %v", err)
			images = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		if ratings, err = s.reviewRepo.ListRatingsByListingIDs(ctx, listingIDs); err != nil {
			log.Printf("[ListingService] 评分拉取失败，降级为空集: %v", err)
			ratings = nil
		}
	}()

	wg.Wait()

	// 四路全挂大概率是 ctx 被取消，这种"降级"其实是半成品，不能当正常页返回
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return newEnrichmentSet(products, services, images, ratings), nil
}

// ==================== 视图装配 ====================

// assemble 逐行装配视图模型，保持基础查询的行序
func (s *ListingService) assemble(listings []model.Listing, enrichment *enrichmentSet, dropUnknown bool) []dto.ListingView {
	items := make([]dto.ListingView, 0, len(listings))

	for i := range listings {
		view := s.toView(&listings[i], enrichment)
		if dropUnknown && view.ListingType == model.ListingTypeUnknown {
			// 子类型连接不一致，丢行不报错
			log.Printf("[ListingService] 挂牌 %s 缺少明细记录，已从子类型列表剔除", listings[i].ID)
			continue
		}
		items = append(items, view)
	}

	return items
}

func (s *ListingService) toView(listing *model.Listing, enrichment *enrichmentSet) dto.ListingView {
	listingType, timeInfo, availabilityInfo := enrichment.TimeAndAvailability(listing.ID)

	view := dto.ListingView{
		ID:               listing.ID,
		Name:             listing.Name,
		Slug:             listing.Slug,
		Description:      listing.Description,
		ShortDescription: listing.ShortDescription,
		BasePrice:        listing.BasePrice,
		DiscountedPrice:  listing.DiscountedPrice,
		Currency:         listing.Currency,
		Location:         listing.Location,
		District:         listing.District,
		Province:         listing.Province,
		Featured:         listing.Featured,
		Tags:             listing.Tags,
		ViewsCount:       listing.ViewsCount,
		PrimaryImage:     enrichment.PrimaryImage(listing.ID),
		ReviewSummary:    enrichment.ReviewSummary(listing.ID),
		TimeInfo:         timeInfo,
		AvailabilityInfo: availabilityInfo,
		ListingType:      listingType,
	}

	if listing.Category != nil {
		view.Category = dto.CategoryView{
			ID:   listing.Category.ID,
			Name: listing.Category.Name,
			Slug: listing.Category.Slug,
		}
	}
	if listing.Seller != nil {
		view.Seller = dto.SellerView{
			ID:           listing.Seller.ID,
			BusinessName: listing.Seller.BusinessName,
			IsVerified:   listing.Seller.IsVerified,
			Rating:       listing.Seller.Rating,
			TotalReviews: listing.Seller.TotalReviews,
			District:     listing.Seller.District,
			Province:     listing.Seller.Province,
		}
	}

	return view
}

func emptyCollection(spec dto.FilterSpec) *dto.ListingCollection {
	return &dto.ListingCollection{
		Items: []dto.ListingView{},
		Pagination: dto.Pagination{
			Page:  spec.Page,
			Limit: spec.Limit,
			Total: 0,
		},
	}
}

// ==================== 分类列表 ====================

// ListCategories 全量分类，带短 TTL 缓存
func (s *ListingService) ListCategories(ctx context.Context) ([]dto.CategoryView, error) {
	const cacheKey = "category:list"
	if cached, ok := utils.GetCache(cacheKey); ok {
		if views, ok := cached.([]dto.CategoryView); ok {
			return views, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	views := make([]dto.CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, dto.CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	utils.SetCache(cacheKey, views, categoryCacheTTL)
	return views, nil
}

// ==================== 工具 ====================

// isUUID 36 位标准 UUID 字符串判定，区分 id 查询与 slug 查询
func isUUID(v string) bool {
	if len(v) != 36 {
		return false
	}
	_, err := uuid.Parse(v)
	return err == nil
}
