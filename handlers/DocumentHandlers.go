package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"montago/document"
	"montago/models"
	"montago/repository"
	"montago/services"
	"montago/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadOrder resolves the :number route parameter to an order, writing
// the error response itself when the lookup fails.
func loadOrder(c *gin.Context, db *gorm.DB) *models.Order {
	number := c.Param("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order number"})
		return nil
	}
	order, err := repository.FindOrderByNumber(db, number)
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	return order
}

// shippingInputs reads km from the query and resolves zona, either from
// the query (callers that own their own zone rule) or from the
// shipping_zones table.
func shippingInputs(c *gin.Context, db *gorm.DB) (km, zona float64, err error) {
	km, _ = strconv.ParseFloat(c.Query("km"), 64)
	if raw := c.Query("zona"); raw != "" {
		zona, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid zona value")
		}
		return km, zona, nil
	}
	zona, err = repository.ResolveZona(db, km)
	return km, zona, err
}

// GenerateDocument godoc
// @Summary      Generate handover protocol document
// @Description  Renders the order's handover protocol in the variant selected by its mandant code and streams the PDF.
// @Tags         documents
// @Param        number  path   string  true   "Order number"
// @Param        km      query  number  false  "Distance in km"
// @Param        zona    query  number  false  "Pre-resolved transport charge"
// @Success      200  "PDF file"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/document [get]
func GenerateDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		km, zona, err := shippingInputs(c, db)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		generator := document.ForMandant(order.Mandant)
		data, err := generator.Generate(order, km, zona)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", document.OutboundName(order.Number)))
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

// PreviewDocument godoc
// @Summary      Preview a document template
// @Description  Renders a template-only preview of a variant with placeholder fields and no machine-readable code.
// @Tags         documents
// @Param        variant  query  string  false  "Variant key (default DEFAULT)"
// @Success      200  "PDF file"
// @Router       /api/document-preview [get]
func PreviewDocument() gin.HandlerFunc {
	return func(c *gin.Context) {
		generator := document.ForMandant(c.Query("variant"))
		data, err := generator.Generate(nil, 0, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

// PersistDocument godoc
// @Summary      Generate and store the handover document
// @Description  Generates the order's document and stores it as the single outbound document, replacing any previous one.
// @Tags         documents
// @Param        number  path  string  true  "Order number"
// @Success      200  {object}  models.PersistDocumentResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/document [post]
func PersistDocument(db *gorm.DB, files *storage.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		km, zona, err := shippingInputs(c, db)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		generator := document.ForMandant(order.Mandant)
		data, err := generator.Generate(order, km, zona)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}

		created, err := document.PersistOutbound(db, files, order, generator.Variant(), data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.PersistDocumentResponse{
			Message:  "Document stored",
			FileName: document.OutboundName(order.Number),
			Created:  created,
		})
	}
}

// SendDocument godoc
// @Summary      Email the handover document
// @Description  Generates the order's document and mails it as an attachment to the given recipient.
// @Tags         documents
// @Param        number  path  string  true  "Order number"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/document/send [post]
func SendDocument(db *gorm.DB, mailer *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
			if order.Client.Email == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No recipient email"})
				return
			}
			body.Email = order.Client.Email
		}

		// The mailed document carries the customer block; an incomplete
		// client record would produce a defective protocol.
		if !order.Client.IsComplete() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Client record is incomplete"})
			return
		}

		km, zona, err := shippingInputs(c, db)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		generator := document.ForMandant(order.Mandant)
		data, err := generator.Generate(order, km, zona)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}

		subject := "Handover protocol for order " + order.CanonicalNumber()
		htmlBody := "<p>Please find the handover protocol for order <b>" + order.CanonicalNumber() + "</b> attached.</p>"
		if err := mailer.SendDocument(body.Email, subject, htmlBody, document.OutboundName(order.Number), data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Document sent to " + body.Email})
	}
}

// GetOrderPrice godoc
// @Summary      Price preview for an order
// @Description  Computes the montage price breakdown from the order's articles and the resolved transport charge.
// @Tags         pricing
// @Param        number  path   string  true   "Order number"
// @Param        km      query  number  false  "Distance in km"
// @Param        zona    query  number  false  "Pre-resolved transport charge"
// @Success      200  {object}  models.PriceResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/orders/{number}/price [get]
func GetOrderPrice(db *gorm.DB, pricing services.PricingConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := loadOrder(c, db)
		if order == nil {
			return
		}

		km, zona, err := shippingInputs(c, db)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.PriceResponse{
			Order: order.CanonicalNumber(),
			Price: pricing.ComputeOrderPrice(order, km, zona),
		})
	}
}
