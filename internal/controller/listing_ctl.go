package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaar_dev_v1_202608/internal/api/dto"
	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/service"
)

type ListingController struct {
	listingService *service.ListingService
}

func NewListingController(listingService *service.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// ==================== 参数解析 ====================

// parseFilterSpec 把松散的 query string 一次性转成 FilterSpec
// 解析失败的字段回退默认值，不让一个写错的参数打挂整个请求
func parseFilterSpec(c *gin.Context) dto.FilterSpec {
	spec := dto.FilterSpec{
		CategoryID:   c.Query("category_id"),
		CategorySlug: c.Query("category"),
		District:     c.Query("district"),
		Province:     c.Query("province"),
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		ServiceType:  c.Query("service_type"),
		Availability: c.Query("availability"),
		MinPrice:     parseFloat(c.Query("min_price")),
		MaxPrice:     parseFloat(c.Query("max_price")),
		Featured:     parseBoolPtr(c.Query("featured")),
		InStock:      parseBoolPtr(c.Query("in_stock")),
		DaysBack:     parseInt(c.Query("days_back"), 0),
		Page:         parseInt(c.DefaultQuery("page", "1"), 1),
		Limit:        parseIntAllowNegative(c.DefaultQuery("limit", "20"), 20),
	}
	return spec
}

func parseInt(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseIntAllowNegative 保留负数原样透传，由 Normalize 判定为非法输入
func parseIntAllowNegative(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func parseBoolPtr(v string) *bool {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// ==================== 列表接口 ====================

// GetListings 全量挂牌列表
// @Summary 挂牌列表 (商品+服务)
// @Tags Listing
// @Param category_id query string false "分类ID"
// @Param district query string false "地区"
// @Param province query string false "省份"
// @Param min_price query number false "最低价"
// @Param max_price query number false "最高价"
// @Param search query string false "关键词 (匹配名称/描述)"
// @Param status query string false "状态" default(active)
// @Param featured query bool false "只看精选"
// @Param listing_type query string false "子类型 product/service"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/listings [get]
func (ctrl *ListingController) GetListings(c *gin.Context) {
	spec := parseFilterSpec(c)
	spec.Subtype = normalizeSubtype(c.Query("listing_type"))

	collection, err := ctrl.listingService.List(c.Request.Context(), spec)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "success",
		"listings":   collection.Items,
		"pagination": collection.Pagination,
	})
}

// GetListingsByCategory 按分类列表
// @Summary 按分类 slug 查挂牌，"all" 表示不过滤
// @Tags Listing
// @Param slug path string true "分类 slug"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/listings/category/{slug} [get]
func (ctrl *ListingController) GetListingsByCategory(c *gin.Context) {
	spec := parseFilterSpec(c)
	spec.CategorySlug = c.Param("slug")

	collection, err := ctrl.listingService.List(c.Request.Context(), spec)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "success",
		"listings":   collection.Items,
		"pagination": collection.Pagination,
	})
}

// GetNewArrivals 新品列表
// @Summary 最近上架的挂牌，默认回看 30 天
// @Tags Listing
// @Param days_back query int false "回看天数" default(30)
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/listings/new-arrivals [get]
func (ctrl *ListingController) GetNewArrivals(c *gin.Context) {
	spec := parseFilterSpec(c)

	collection, dateRange, err := ctrl.listingService.ListNewArrivals(c.Request.Context(), spec)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "success",
		"listings":   collection.Items,
		"pagination": collection.Pagination,
		"date_range": dateRange,
	})
}

// GetProducts 实物商品列表
// @Summary 只看实物商品的挂牌
// @Tags Listing
// @Param in_stock query bool false "只看有货"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/products [get]
func (ctrl *ListingController) GetProducts(c *gin.Context) {
	spec := parseFilterSpec(c)
	spec.Subtype = model.ListingTypeProduct
	spec.RequireDetail = true

	collection, err := ctrl.listingService.List(c.Request.Context(), spec)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "success",
		"products":   collection.Items,
		"pagination": collection.Pagination,
	})
}

// GetServices 服务列表
// @Summary 只看服务类的挂牌
// @Tags Listing
// @Param service_type query string false "履约方式 on_site/remote/hybrid"
// @Param availability query string false "可约状态 on_demand/scheduled/unavailable"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/services [get]
func (ctrl *ListingController) GetServices(c *gin.Context) {
	spec := parseFilterSpec(c)
	spec.Subtype = model.ListingTypeService
	spec.RequireDetail = true

	collection, err := ctrl.listingService.List(c.Request.Context(), spec)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "success",
		"services":   collection.Items,
		"pagination": collection.Pagination,
	})
}

// ==================== 详情接口 ====================

// GetListingDetail 挂牌详情
// @Summary 按 UUID 或 slug 查单条详情，访问一次浏览数 +1
// @Tags Listing
// @Param idOrSlug path string true "挂牌 UUID 或 slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/listings/{idOrSlug} [get]
func (ctrl *ListingController) GetListingDetail(c *gin.Context) {
	idOrSlug := c.Param("idOrSlug")

	detail, err := ctrl.listingService.GetDetail(c.Request.Context(), idOrSlug)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "挂牌不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"listing": detail,
	})
}

// ==================== 工具 ====================

// normalizeSubtype 只认 product / service，其余一律当没传
func normalizeSubtype(v string) string {
	switch v {
	case model.ListingTypeProduct, model.ListingTypeService:
		return v
	default:
		return ""
	}
}

// respondListError 列表错误统一回包
// 参数非法回 400，其余都是基础查询失败，回 500 由调用方重试
func respondListError(c *gin.Context, err error) {
	if errors.Is(err, dto.ErrInvalidFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "非法的查询参数"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
}
