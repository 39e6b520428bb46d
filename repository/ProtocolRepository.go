package repository

import (
	"errors"
	"fmt"
	"time"

	"montago/models"

	"gorm.io/gorm"
)

// GetProtocolFile returns the current protocol file row for an order,
// or nil when none exists.
func GetProtocolFile(db *gorm.DB, orderID uint) (*models.ProtocolFile, error) {
	var pf models.ProtocolFile
	err := db.Where("order_id = ?", orderID).First(&pf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load protocol file: %w", err)
	}
	return &pf, nil
}

// ReplaceProtocolFile upserts the singleton protocol file row for an
// order. The unique index on order_id backs the at-most-one invariant;
// replacing updates the existing row in place so no second row can ever
// exist, not even transiently.
func ReplaceProtocolFile(db *gorm.DB, orderID uint, fileName, contentType string, size int64) (*models.ProtocolFile, error) {
	var pf models.ProtocolFile
	err := db.Where("order_id = ?", orderID).First(&pf).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		pf = models.ProtocolFile{
			OrderID:     orderID,
			FileName:    fileName,
			ContentType: contentType,
			Size:        size,
		}
		if err := db.Create(&pf).Error; err != nil {
			return nil, fmt.Errorf("failed to store protocol file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load protocol file: %w", err)
	default:
		pf.FileName = fileName
		pf.ContentType = contentType
		pf.Size = size
		if err := db.Save(&pf).Error; err != nil {
			return nil, fmt.Errorf("failed to store protocol file: %w", err)
		}
	}
	return &pf, nil
}

// DeleteProtocolFile removes the protocol file row for an order.
func DeleteProtocolFile(db *gorm.DB, orderID uint) error {
	if err := db.Where("order_id = ?", orderID).Delete(&models.ProtocolFile{}).Error; err != nil {
		return fmt.Errorf("failed to delete protocol file: %w", err)
	}
	return nil
}

// GetOutboundDocument returns the current outbound document row for an
// order, or nil when none exists.
func GetOutboundDocument(db *gorm.DB, orderID uint) (*models.OutboundDocument, error) {
	var doc models.OutboundDocument
	err := db.Where("order_id = ?", orderID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load outbound document: %w", err)
	}
	return &doc, nil
}

// ReplaceOutboundDocument upserts the singleton outbound document row
// for an order. Returns whether a new row was created.
func ReplaceOutboundDocument(db *gorm.DB, orderID uint, fileName, variant string, size int64) (created bool, err error) {
	var doc models.OutboundDocument
	err = db.Where("order_id = ?", orderID).First(&doc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		doc = models.OutboundDocument{
			OrderID:  orderID,
			FileName: fileName,
			Variant:  variant,
			Size:     size,
		}
		if err := db.Create(&doc).Error; err != nil {
			return false, fmt.Errorf("failed to store outbound document: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to load outbound document: %w", err)
	default:
		doc.FileName = fileName
		doc.Variant = variant
		doc.Size = size
		if err := db.Save(&doc).Error; err != nil {
			return false, fmt.Errorf("failed to store outbound document: %w", err)
		}
		return false, nil
	}
}

// ReplaceVerificationToken deletes any outstanding token for the order
// and inserts the new one, mirroring the single-session pattern: at most
// one live token per order.
func ReplaceVerificationToken(db *gorm.DB, token *models.VerificationToken) error {
	if err := db.Where("order_id = ?", token.OrderID).Delete(&models.VerificationToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete existing token: %w", err)
	}
	if err := db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to insert new token: %w", err)
	}
	return nil
}

// GetVerificationToken returns the live token row for an order, or nil.
func GetVerificationToken(db *gorm.DB, orderID uint) (*models.VerificationToken, error) {
	var token models.VerificationToken
	err := db.Where("order_id = ?", orderID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verification token: %w", err)
	}
	return &token, nil
}

// ClearVerificationToken deletes the order's token. Tokens are
// single-use; the intake pipeline calls this after a successful
// verification.
func ClearVerificationToken(db *gorm.DB, orderID uint) error {
	if err := db.Where("order_id = ?", orderID).Delete(&models.VerificationToken{}).Error; err != nil {
		return fmt.Errorf("failed to clear verification token: %w", err)
	}
	return nil
}

// PurgeExpiredTokens deletes every token past its expiry. Wired to the
// cron schedule in main.
func PurgeExpiredTokens(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at < ?", time.Now()).Delete(&models.VerificationToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge expired tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
