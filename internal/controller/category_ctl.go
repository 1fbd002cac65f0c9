package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar_dev_v1_202608/internal/service"
)

type CategoryController struct {
	listingService *service.ListingService
}

func NewCategoryController(listingService *service.ListingService) *CategoryController {
	return &CategoryController{listingService: listingService}
}

// GetCategories 分类列表
// @Summary 全量分类，前端做筛选器用
// @Tags Category
// @Success 200 {object} map[string]interface{}
// @Router /api/categories [get]
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.listingService.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "success",
		"categories": categories,
	})
}
