package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"bazaar_dev_v1_202608/internal/controller"
	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/repository"
	"bazaar_dev_v1_202608/internal/router"
	"bazaar_dev_v1_202608/internal/service"
	"bazaar_dev_v1_202608/internal/task"
	"bazaar_dev_v1_202608/pkg/database"
)

// @title Bazaar Catalog API
// @version 1.0
// @description 多商家目录服务：商品/服务挂牌的聚合查询
// @BasePath /api
func main() {
	// 本地开发从 .env 读配置，线上直接用环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Listing  repository.ListingRepository
	Product  repository.ProductRepository
	Service  repository.ServiceRepository
	Image    repository.ImageRepository
	Review   repository.ReviewRepository
	Category repository.CategoryRepository
	Seller   repository.SellerRepository
}

// Services 服务集合
type Services struct {
	Listing *service.ListingService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	return database.InitDB(
		database.DSNFromEnv(),
		// Catalog
		&model.Category{}, &model.Seller{},
		// Listing
		&model.Listing{}, &model.Product{}, &model.Service{},
		// Enrichment
		&model.ListingImage{}, &model.Review{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Listing:  repository.NewListingRepository(db),
		Product:  repository.NewProductRepository(db),
		Service:  repository.NewServiceRepository(db),
		Image:    repository.NewImageRepository(db),
		Review:   repository.NewReviewRepository(db),
		Category: repository.NewCategoryRepository(db),
		Seller:   repository.NewSellerRepository(db),
	}

	// -------- 业务服务 --------
	services := &Services{
		Listing: service.NewListingService(
			repos.Listing, repos.Product, repos.Service,
			repos.Image, repos.Review, repos.Category,
		),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Listing:  controller.NewListingController(services.Listing),
		Category: controller.NewCategoryController(services.Listing),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 图片巡检
	imageAudit := task.NewImageAuditTask(deps.Repos.Image)
	imageAudit.Start()

	// 卖家统计重算
	sellerStats := task.NewSellerStatsTask(deps.Repos.Review, deps.Repos.Seller)
	sellerStats.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 10 秒
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
