package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"montago/intake"
	"montago/models"
	"montago/repository"
	"montago/services"
	"montago/storage"
	"montago/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// resolveActor turns the request's bearer token into an Actor. When the
// caller cannot be resolved to a known identity, the change falls back
// to the designated system identity, and failing that stays anonymous —
// intake must never fail on attribution.
func resolveActor(c *gin.Context, db *gorm.DB) models.Actor {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token != "" {
		if email, err := utils.EmailFromJWT(token); err == nil {
			var user models.User
			if err := db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err == nil {
				return models.KnownActor(&user)
			}
		}
	}

	systemEmail := os.Getenv("SYSTEM_USER_EMAIL")
	if systemEmail == "" {
		systemEmail = "system@montago.local"
	}
	if sys, err := repository.SystemUser(db, systemEmail); err == nil && sys != nil {
		return models.SystemActor(sys)
	}
	return models.AnonymousActor()
}

// rejectionStatus maps an intake rejection to its HTTP status.
func rejectionStatus(kind intake.RejectionKind) int {
	switch kind {
	case intake.RejectNoFile, intake.RejectBadExtension:
		return http.StatusBadRequest
	case intake.RejectCodeNotFound, intake.RejectCodeMismatch:
		return http.StatusUnprocessableEntity
	case intake.RejectOrderClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SubmitProtocol godoc
// @Summary      Submit a scanned handover protocol
// @Description  Runs the protocol intake for an order: validates the upload, verifies the embedded code against the order number and closes the order out.
// @Tags         protocol
// @Accept       multipart/form-data
// @Param        number  path      string  true   "Order number"
// @Param        file    formData  file    true   "Scanned protocol image"
// @Param        token   query     string  false  "Out-of-band submission token"
// @Success      200  {object}  models.IntakeResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/protocol [post]
func SubmitProtocol(db *gorm.DB, pipeline *intake.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		// An out-of-band link carries a submission token; when present
		// it must match the order's outstanding verification token.
		if signed := c.Query("token"); signed != "" {
			if err := services.ValidateSubmissionToken(db, order, signed); err != nil {
				if errors.Is(err, services.ErrInvalidToken) {
					c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		fh, err := c.FormFile("file")
		var upload intake.Upload
		if err == nil {
			upload = intake.UploadFromMultipart(fh)
		}

		actor := resolveActor(c, db)
		if err := pipeline.Submit(order, upload, actor); err != nil {
			var rejection *intake.RejectionError
			if errors.As(err, &rejection) {
				c.JSON(rejectionStatus(rejection.Kind), gin.H{"error": rejection.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.IntakeResponse{
			Message: "Protocol accepted",
			Order:   order.CanonicalNumber(),
			Status:  models.StatusRealized,
		})
	}
}

// GetProtocolFile godoc
// @Summary      Serve the stored protocol scan
// @Tags         protocol
// @Produce      application/octet-stream
// @Param        number  path  string  true  "Order number"
// @Success      200  {file}    file  "Stored protocol scan"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/protocol [get]
func GetProtocolFile(db *gorm.DB, files *storage.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		pf, err := repository.GetProtocolFile(db, order.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if pf == nil || !files.Exists(pf.FileName) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No protocol stored for this order"})
			return
		}

		full, err := files.Path(pf.FileName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		if pf.ContentType != "" {
			c.Header("Content-Type", pf.ContentType)
		}
		c.File(full)
	}
}
