package task

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/repository"
)

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Category{}, &model.Seller{}, &TestListing{}, &model.Review{},
	); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

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

func TestSellerStatsTask_Execute(t *testing.T) {
	db := setupTaskTestDB(t)

	category := model.Category{
		BaseModel: model.BaseModel{ID: "c1c1c1c1-0000-0000-0000-0000000000c1"},
		Name:      "Misc", Slug: "misc",
	}
	seller := model.Seller{
		BaseModel:    model.BaseModel{ID: "5e11e111-0000-0000-0000-0000000000c1"},
		BusinessName: "Stale Stats Shop",
		Rating:       1.0, // 过期的冗余值，等任务重算
		TotalReviews: 99,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("写入分类失败: %v", err)
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("写入卖家失败: %v", err)
	}

	listing := model.Listing{
		BaseModel:  model.BaseModel{ID: "44444444-0000-0000-0000-0000000000c1"},
		SellerID:   seller.ID, CategoryID: category.ID,
		Name: "Thing", Slug: "thing", BasePrice: 10,
		Status: model.ListingStatusActive,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("写入挂牌失败: %v", err)
	}

	reviews := []model.Review{
		{BaseModel: model.BaseModel{ID: "44444444-0000-0000-0000-000000000201"}, ListingID: listing.ID,
			Rating: 5, Status: model.ReviewStatusApproved},
		{BaseModel: model.BaseModel{ID: "44444444-0000-0000-0000-000000000202"}, ListingID: listing.ID,
			Rating: 4, Status: model.ReviewStatusApproved},
		{BaseModel: model.BaseModel{ID: "44444444-0000-0000-0000-000000000203"}, ListingID: listing.ID,
			Rating: 4, Status: model.ReviewStatusApproved},
		// 未审核评价不计入
		{BaseModel: model.BaseModel{ID: "44444444-0000-0000-0000-000000000204"}, ListingID: listing.ID,
			Rating: 1, Status: model.ReviewStatusPending},
	}
	if err := db.Create(&reviews).Error; err != nil {
		t.Fatalf("写入评价失败: %v", err)
	}

	task := NewSellerStatsTask(
		repository.NewReviewRepository(db),
		repository.NewSellerRepository(db),
	)
	task.Execute(context.Background())

	var got model.Seller
	if err := db.First(&got, "id = ?", seller.ID).Error; err != nil {
		t.Fatalf("回查卖家失败: %v", err)
	}
	if got.TotalReviews != 3 {
		t.Errorf("评价数应只算已审核的 3 条, got %d", got.TotalReviews)
	}
	// (5+4+4)/3 = 4.33
	if got.Rating != 4.33 {
		t.Errorf("平均评分应为 4.33, got %v", got.Rating)
	}
}
