package handlers

import (
	"math"
	"net/http"
	"strconv"

	"montago/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetOrderActivity godoc
// @Summary      List an order's activity history
// @Description  Returns the status changes recorded for the order, newest first, paginated.
// @Tags         orders
// @Param        number  path   string  true   "Order number"
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Limit"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/activity [get]
func GetOrderActivity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 {
			limit = 10
		}
		offset := (page - 1) * limit

		var total int64
		if err := db.Model(&models.ActivityLog{}).Where("order_id = ?", order.ID).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting activity"})
			return
		}

		var entries []models.ActivityLog
		if err := db.Where("order_id = ?", order.ID).
			Order("created_at DESC").
			Limit(limit).Offset(offset).
			Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activity"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":          entries,
			"total_records": total,
			"total_pages":   int(math.Ceil(float64(total) / float64(limit))),
			"current_page":  page,
			"limit":         limit,
		})
	}
}
