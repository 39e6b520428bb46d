package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"montago/models"

	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no order matches the given number.
var ErrOrderNotFound = errors.New("order not found")

// FindOrderByNumber loads an order with its client, team and articles.
// Order numbers compare case-insensitively.
func FindOrderByNumber(db *gorm.DB, number string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Client").Preload("Team").Preload("Articles").
		Where("UPPER(number) = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", number, err)
	}
	return &order, nil
}

// FindOrderByID loads an order by primary key with its associations.
func FindOrderByID(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Client").Preload("Team").Preload("Articles").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return &order, nil
}

// MarkRealized sets the order status to REALIZED and records who did it.
// Anonymous actors leave the audit column null instead of failing.
func MarkRealized(db *gorm.DB, order *models.Order, actor models.Actor) error {
	updates := map[string]interface{}{
		"status":     models.StatusRealized,
		"updated_by": actor.AttributedUserID(),
		"updated_at": time.Now(),
	}
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = models.StatusRealized
	order.UpdatedBy = actor.AttributedUserID()

	logEntry := models.ActivityLog{
		OrderID:   order.ID,
		Action:    "status:" + models.StatusRealized,
		Actor:     actor.Label,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&logEntry).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ResolveZona returns the transport charge for a distance: the price of
// the lowest zone whose ceiling covers km. Distances beyond the last
// ceiling fall into the most expensive zone.
func ResolveZona(db *gorm.DB, km float64) (float64, error) {
	var zone models.ShippingZone
	err := db.Where("max_km >= ?", km).Order("zone ASC").First(&zone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Order("zone DESC").First(&zone).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve shipping zone for %.1f km: %w", km, err)
	}
	return zone.Price, nil
}

// SystemUser returns the designated system identity used to attribute
// automated changes, or nil when none is configured.
func SystemUser(db *gorm.DB, email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	var user models.User
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load system user: %w", err)
	}
	return &user, nil
}
