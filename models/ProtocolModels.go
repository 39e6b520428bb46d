package models

import "time"

// ProtocolFile holds the currently accepted inbound handover protocol
// for an order. One live row (and one live blob) per order, enforced by
// the unique index and the replace operation in the repository.
type ProtocolFile struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	OrderID     uint      `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	FileName    string    `gorm:"column:file_name;not null" json:"file_name"`
	ContentType string    `gorm:"column:content_type" json:"content_type"`
	Size        int64     `gorm:"column:size" json:"size"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for ProtocolFile
func (ProtocolFile) TableName() string {
	return "protocol_files"
}

// OutboundDocument holds the most recently generated handover document
// for an order. Regenerating replaces the previous row and blob.
type OutboundDocument struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	OrderID   uint      `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	FileName  string    `gorm:"column:file_name;not null" json:"file_name"`
	Variant   string    `gorm:"column:variant;not null" json:"variant"`
	Size      int64     `gorm:"column:size" json:"size"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for OutboundDocument
func (OutboundDocument) TableName() string {
	return "outbound_documents"
}

// VerificationToken authorizes one out-of-band protocol submission for an
// order. At most one live row per order; deleted once the intake succeeds.
// Only the bcrypt hash of the token is stored.
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	OrderID   uint      `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	TokenHash string    `gorm:"column:token_hash;not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for VerificationToken
func (VerificationToken) TableName() string {
	return "verification_tokens"
}
