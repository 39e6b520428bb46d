package document

import (
	"bytes"
	"fmt"
	"strings"

	"montago/models"
	"montago/repository"
	"montago/storage"

	"gorm.io/gorm"
)

// OutboundName is the canonical stored name of an order's generated
// handover document.
func OutboundName(orderNumber string) string {
	return "order_" + strings.ToUpper(strings.TrimSpace(orderNumber)) + ".pdf"
}

// PersistOutbound stores a generated document as the order's one
// outbound document, deleting the previous blob first so regeneration
// never leaves an orphaned file. Returns whether a row was created
// (false means an existing document was overwritten).
func PersistOutbound(db *gorm.DB, files *storage.FileStore, order *models.Order, variant string, data []byte) (bool, error) {
	name := OutboundName(order.Number)

	prior, err := repository.GetOutboundDocument(db, order.ID)
	if err != nil {
		return false, err
	}
	oldName := ""
	if prior != nil {
		oldName = prior.FileName
	}

	size, err := files.Replace(oldName, name, bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("failed to store document blob: %w", err)
	}

	created, err := repository.ReplaceOutboundDocument(db, order.ID, name, variant, size)
	if err != nil {
		return false, err
	}
	return created, nil
}
