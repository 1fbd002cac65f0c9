package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bazaar_dev_v1_202608/internal/model"
)

// ==================== 测试建表结构 ====================

// TestListing 建表用的挂牌结构，tags 列以普通文本代替 postgres 的 text[]
type TestListing struct {
	model.BaseModel
	SellerID         string  `gorm:"type:uuid;index;not null"`
	CategoryID       string  `gorm:"type:uuid;index;not null"`
	Name             string  `gorm:"size:255;not null"`
	Slug             string  `gorm:"size:255;uniqueIndex"`
	Description      string  `gorm:"type:text"`
	ShortDescription string  `gorm:"size:500"`
	BasePrice        float64 `gorm:"not null"`
	DiscountedPrice  *float64
	Currency         string  `gorm:"size:5;default:NPR"`
	Location         string  `gorm:"size:255"`
	District         string  `gorm:"size:100;index"`
	Province         string  `gorm:"size:100;index"`
	Status           string  `gorm:"size:20;index;default:active"`
	Featured         bool    `gorm:"default:false"`
	ViewsCount       int     `gorm:"default:0"`
	ProductID        *string `gorm:"type:uuid;index"`
	ServiceID        *string `gorm:"type:uuid;index"`
	Tags             string  `gorm:"type:text"`
}

func (TestListing) TableName() string { return "listings" }

// ==================== 测试辅助 ====================

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Category{}, &model.Seller{},
		&TestListing{}, &model.Product{}, &model.Service{},
		&model.ListingImage{}, &model.Review{},
	); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func seedRepoFixture(t *testing.T, db *gorm.DB) (model.Category, model.Seller) {
	category := model.Category{
		BaseModel: model.BaseModel{ID: "c1c1c1c1-0000-0000-0000-0000000000a1"},
		Name:      "Furniture",
		Slug:      "furniture",
	}
	seller := model.Seller{
		BaseModel:    model.BaseModel{ID: "5e11e111-0000-0000-0000-0000000000a1"},
		BusinessName: "Pokhara Woods",
		District:     "Kaski",
		Province:     "Gandaki",
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("写入分类失败: %v", err)
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("写入卖家失败: %v", err)
	}
	return category, seller
}

func mkListing(id, slug string, category model.Category, seller model.Seller) model.Listing {
	return model.Listing{
		BaseModel:  model.BaseModel{ID: id},
		SellerID:   seller.ID,
		CategoryID: category.ID,
		Name:       "Listing " + slug,
		Slug:       slug,
		BasePrice:  500,
		Status:     model.ListingStatusActive,
		District:   "Kaski",
		Province:   "Gandaki",
	}
}

// ==================== 谓词拼接 ====================

func TestListingRepo_List_StatusAlwaysFiltered(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	active := mkListing("22222222-0000-0000-0000-000000000001", "active-one", category, seller)
	draft := mkListing("22222222-0000-0000-0000-000000000002", "draft-one", category, seller)
	draft.Status = model.ListingStatusDraft
	if err := db.Create(&active).Error; err != nil {
		t.Fatalf("写入挂牌失败: %v", err)
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("写入挂牌失败: %v", err)
	}

	listings, err := repo.List(context.Background(), ListingFilter{Status: "active"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 1 || listings[0].Slug != "active-one" {
		t.Errorf("draft 不应出现在 active 列表中: %+v", listings)
	}

	// 显式改查 draft
	listings, err = repo.List(context.Background(), ListingFilter{Status: "draft"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 1 || listings[0].Slug != "draft-one" {
		t.Errorf("指定 status=draft 应只回 draft: %+v", listings)
	}
}

func TestListingRepo_List_InnerJoinExcludesOrphans(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	ok := mkListing("22222222-0000-0000-0000-000000000011", "has-seller", category, seller)
	if err := db.Create(&ok).Error; err != nil {
		t.Fatalf("写入挂牌失败: %v", err)
	}

	// 卖家外键悬空的脏行，内连接应直接排除
	orphan := mkListing("22222222-0000-0000-0000-000000000012", "ghost-seller", category, seller)
	orphan.SellerID = "5e11e111-0000-0000-0000-00000000dead"
	if err := db.Create(&orphan).Error; err != nil {
		t.Fatalf("写入挂牌失败: %v", err)
	}

	listings, err := repo.List(context.Background(), ListingFilter{Status: "active"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 1 || listings[0].Slug != "has-seller" {
		t.Errorf("悬空外键的行应被内连接排除: %+v", listings)
	}
	if listings[0].Seller == nil || listings[0].Seller.BusinessName != "Pokhara Woods" {
		t.Errorf("内连接应带出卖家: %+v", listings[0].Seller)
	}
	if listings[0].Category == nil || listings[0].Category.Slug != "furniture" {
		t.Errorf("内连接应带出分类: %+v", listings[0].Category)
	}
}

func TestListingRepo_List_PriceWindow(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	cheap := mkListing("22222222-0000-0000-0000-000000000021", "cheap", category, seller)
	cheap.BasePrice = 100
	mid := mkListing("22222222-0000-0000-0000-000000000022", "mid", category, seller)
	mid.BasePrice = 500
	pricey := mkListing("22222222-0000-0000-0000-000000000023", "pricey", category, seller)
	pricey.BasePrice = 2000
	for _, l := range []model.Listing{cheap, mid, pricey} {
		l := l
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("写入挂牌失败: %v", err)
		}
	}

	listings, err := repo.List(context.Background(), ListingFilter{Status: "active", MinPrice: 200, MaxPrice: 1000})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 1 || listings[0].Slug != "mid" {
		t.Errorf("价格窗口应只命中 mid: %+v", listings)
	}

	// 0 视为未提供：MinPrice=0 不应过滤掉任何行
	listings, err = repo.List(context.Background(), ListingFilter{Status: "active", MinPrice: 0})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 3 {
		t.Errorf("MinPrice=0 视为未提供, got %d 条", len(listings))
	}
}

func TestListingRepo_List_KeywordCaseInsensitive(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	byName := mkListing("22222222-0000-0000-0000-000000000031", "sofa-set", category, seller)
	byName.Name = "Wooden SOFA Set"
	byDesc := mkListing("22222222-0000-0000-0000-000000000032", "desc-match", category, seller)
	byDesc.Name = "Living Room Bundle"
	byDesc.Description = "includes one sofa and two chairs"
	noMatch := mkListing("22222222-0000-0000-0000-000000000033", "no-match", category, seller)
	noMatch.Name = "Dining Table"
	for _, l := range []model.Listing{byName, byDesc, noMatch} {
		l := l
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("写入挂牌失败: %v", err)
		}
	}

	listings, err := repo.List(context.Background(), ListingFilter{Status: "active", Keyword: "Sofa"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("关键词应大小写不敏感地命中名称和描述, got %d 条", len(listings))
	}
}

func TestListingRepo_List_SubtypeAndInStock(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	stockedID := "aaaaaaaa-0000-0000-0000-000000000041"
	stocked := mkListing("22222222-0000-0000-0000-000000000041", "stocked", category, seller)
	stocked.ProductID = &stockedID
	soldOutID := "aaaaaaaa-0000-0000-0000-000000000042"
	soldOut := mkListing("22222222-0000-0000-0000-000000000042", "sold-out", category, seller)
	soldOut.ProductID = &soldOutID
	serviceOnlyID := "bbbbbbbb-0000-0000-0000-000000000043"
	serviceOnly := mkListing("22222222-0000-0000-0000-000000000043", "service-only", category, seller)
	serviceOnly.ServiceID = &serviceOnlyID
	for _, l := range []model.Listing{stocked, soldOut, serviceOnly} {
		l := l
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("写入挂牌失败: %v", err)
		}
	}

	details := []model.Product{
		{BaseModel: model.BaseModel{ID: stockedID}, ListingID: stocked.ID, StockQuantity: 3},
		{BaseModel: model.BaseModel{ID: soldOutID}, ListingID: soldOut.ID, StockQuantity: 0},
	}
	if err := db.Create(&details).Error; err != nil {
		t.Fatalf("写入商品明细失败: %v", err)
	}
	svcDetail := model.Service{
		BaseModel: model.BaseModel{ID: serviceOnlyID},
		ListingID: serviceOnly.ID, Availability: model.ServiceAvailabilityOnDemand,
		ServiceType: model.ServiceTypeRemote,
	}
	if err := db.Create(&svcDetail).Error; err != nil {
		t.Fatalf("写入服务明细失败: %v", err)
	}

	// 子类型 product：service-only 排除
	listings, err := repo.List(context.Background(), ListingFilter{Status: "active", Subtype: model.ListingTypeProduct})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("products 端点应排除服务挂牌, got %d 条", len(listings))
	}

	// in_stock=true：只剩有库存的
	inStock := true
	listings, err = repo.List(context.Background(), ListingFilter{
		Status: "active", Subtype: model.ListingTypeProduct, InStock: &inStock,
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 1 || listings[0].Slug != "stocked" {
		t.Errorf("in_stock 应排除零库存: %+v", listings)
	}

	// service_type 过滤
	listings, err = repo.List(context.Background(), ListingFilter{
		Status: "active", Subtype: model.ListingTypeService, ServiceType: model.ServiceTypeRemote,
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 1 || listings[0].Slug != "service-only" {
		t.Errorf("service_type 过滤错误: %+v", listings)
	}

	// availability 过滤不命中时回空
	listings, err = repo.List(context.Background(), ListingFilter{
		Status: "active", Subtype: model.ListingTypeService, Availability: model.ServiceAvailabilityScheduled,
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("availability 不匹配应回空, got %+v", listings)
	}
}

// ==================== 分页与排序 ====================

func TestListingRepo_List_PaginationOffset(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	now := time.Now().UTC()
	slugs := []string{"p1", "p2", "p3", "p4", "p5"}
	for i, slug := range slugs {
		l := mkListing("22222222-0000-0000-0000-00000000005"+string(rune('0'+i)), slug, category, seller)
		// p1 最新、p5 最旧
		l.CreatedAt = now.Add(-time.Duration(i) * time.Hour)
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("写入挂牌失败: %v", err)
		}
	}

	page2, err := repo.List(context.Background(), ListingFilter{Status: "active", Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(page2) != 2 || page2[0].Slug != "p3" || page2[1].Slug != "p4" {
		t.Errorf("第二页应为 p3, p4: %+v", page2)
	}

	// 超出范围的页码回空，不报错
	page9, err := repo.List(context.Background(), ListingFilter{Status: "active", Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(page9) != 0 {
		t.Errorf("越界页应回空, got %d 条", len(page9))
	}
}

// ==================== 详情与副作用 ====================

func TestListingRepo_GetBySlugAndIncrementViews(t *testing.T) {
	db := setupRepoTestDB(t)
	category, seller := seedRepoFixture(t, db)
	repo := NewListingRepository(db)

	l := mkListing("22222222-0000-0000-0000-000000000061", "teak-shelf", category, seller)
	l.ViewsCount = 41
	l.Tags = []string{"wood", "handmade"}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("写入挂牌失败: %v", err)
	}

	got, err := repo.GetBySlug(context.Background(), "teak-shelf")
	if err != nil {
		t.Fatalf("按 slug 查询失败: %v", err)
	}
	if got.ID != l.ID || got.Seller == nil || got.Category == nil {
		t.Errorf("详情查询应带出卖家与分类: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "wood" {
		t.Errorf("标签读写错误: %+v", got.Tags)
	}

	if err := repo.IncrementViews(context.Background(), l.ID); err != nil {
		t.Fatalf("浏览数自增失败: %v", err)
	}
	got, err = repo.GetByID(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("按 ID 查询失败: %v", err)
	}
	if got.ViewsCount != 42 {
		t.Errorf("浏览数应为 42, got %d", got.ViewsCount)
	}

	// 查不到时透传 gorm.ErrRecordNotFound，由上层翻译
	if _, err := repo.GetBySlug(context.Background(), "nope"); err != gorm.ErrRecordNotFound {
		t.Errorf("应透传 ErrRecordNotFound, got %v", err)
	}
}
