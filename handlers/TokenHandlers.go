package handlers

import (
	"net/http"
	"time"

	"montago/models"
	"montago/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IssueVerificationLink godoc
// @Summary      Issue a protocol submission link
// @Description  Creates (or replaces) the order's single verification token and returns a signed out-of-band submission link.
// @Tags         protocol
// @Param        number  path  string  true  "Order number"
// @Success      200  {object}  models.VerificationLinkResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/verification-link [post]
func IssueVerificationLink(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		link, expiresAt, err := services.IssueVerificationToken(db, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.VerificationLinkResponse{
			Message:   "Verification link issued",
			Link:      link,
			ExpiresAt: expiresAt.Format(time.RFC3339),
		})
	}
}
