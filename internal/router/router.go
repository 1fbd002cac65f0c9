package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bazaar_dev_v1_202608/internal/controller"
	"bazaar_dev_v1_202608/internal/middleware"

	_ "bazaar_dev_v1_202608/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Listing  *controller.ListingController
	Category *controller.CategoryController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Audit())

	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// listing 挂牌组
		listings := api.Group("/listings")
		{
			// GET /api/listings
			listings.GET("", ctls.Listing.GetListings)
			// GET /api/listings/new-arrivals
			listings.GET("/new-arrivals", ctls.Listing.GetNewArrivals)
			// GET /api/listings/category/:slug
			listings.GET("/category/:slug", ctls.Listing.GetListingsByCategory)
			// GET /api/listings/:idOrSlug
			// 详情带浏览数写入，加一层冷却限流挡刷量
			listings.GET("/:idOrSlug",
				middleware.Cooldown("listing_detail", middleware.DetailCooldown),
				ctls.Listing.GetListingDetail)
		}

		// 子类型专属列表
		api.GET("/products", ctls.Listing.GetProducts)
		api.GET("/services", ctls.Listing.GetServices)

		// category 分类组
		api.GET("/categories", ctls.Category.GetCategories)
	}

	return r
}
