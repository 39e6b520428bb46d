package models

import (
	"strings"
	"time"
)

// Order lifecycle statuses. NEW, ADVICED, REALIZED and BILLED follow the
// normal progression; CANCELED and HIDDEN are absorbing.
const (
	StatusNew      = "NEW"
	StatusAdviced  = "ADVICED"
	StatusRealized = "REALIZED"
	StatusBilled   = "BILLED"
	StatusCanceled = "CANCELED"
	StatusHidden   = "HIDDEN"
)

// Order represents one furniture-assembly order
type Order struct {
	ID        uint       `gorm:"primaryKey;column:id" json:"id"`
	Number    string     `gorm:"column:number;uniqueIndex;not null" json:"number"`
	Mandant   string     `gorm:"column:mandant;not null" json:"mandant"`
	Status    string     `gorm:"column:status;not null;default:'NEW'" json:"status"`
	MontageAt *time.Time `gorm:"column:montage_at" json:"montage_at,omitempty"`
	Notes     string     `gorm:"column:notes" json:"notes"`
	ClientID  uint       `gorm:"column:client_id;not null" json:"client_id"`
	Client    Client     `gorm:"foreignKey:ClientID" json:"client"`
	TeamID    *uint      `gorm:"column:team_id" json:"team_id,omitempty"`
	Team      *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Articles  []Article  `gorm:"foreignKey:OrderID" json:"articles"`
	UpdatedBy *uint      `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// CanonicalNumber returns the order number in its canonical uppercase
// form. Order numbers compare case-insensitively everywhere.
func (o *Order) CanonicalNumber() string {
	return strings.ToUpper(strings.TrimSpace(o.Number))
}

// IsTerminal reports whether the order sits in an absorbing status.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCanceled || o.Status == StatusHidden
}

// Article belongs to exactly one order. Price may be null; null-priced
// articles contribute zero to the goods value but sofas are still counted.
type Article struct {
	ID       uint     `gorm:"primaryKey;column:id" json:"id"`
	OrderID  uint     `gorm:"column:order_id;not null;index" json:"order_id"`
	Name     string   `gorm:"column:name;not null" json:"name"`
	Price    *float64 `gorm:"column:price" json:"price,omitempty"`
	Quantity int      `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Note     string   `gorm:"column:note" json:"note"`
	IsSofa   bool     `gorm:"column:is_sofa;not null;default:false" json:"is_sofa"`
}

// TableName specifies the table name for Article
func (Article) TableName() string {
	return "articles"
}

// Client represents the end customer of an order
type Client struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"id"`
	Name       string `gorm:"column:name;not null" json:"name"`
	Street     string `gorm:"column:street" json:"street"`
	City       string `gorm:"column:city" json:"city"`
	PostalCode string `gorm:"column:postal_code" json:"postal_code"`
	Phone      string `gorm:"column:phone" json:"phone"`
	Email      string `gorm:"column:email" json:"email"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// IsComplete reports whether the client record carries every field the
// downstream automation needs. Incomplete clients gate that automation.
func (c *Client) IsComplete() bool {
	return c.Name != "" && c.Street != "" && c.City != "" && c.PostalCode != "" && c.Phone != ""
}

// Team represents the montage crew assigned to an order
type Team struct {
	ID    uint   `gorm:"primaryKey;column:id" json:"id"`
	Name  string `gorm:"column:name;not null" json:"name"`
	Phone string `gorm:"column:phone" json:"phone"`
}

// TableName specifies the table name for Team
func (Team) TableName() string {
	return "teams"
}

// User is the minimal identity record needed for audit attribution
type User struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"id"`
	Email     string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"column:first_name" json:"first_name"`
	LastName  string `gorm:"column:last_name" json:"last_name"`
	Password  string `gorm:"column:password" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// ShippingZone maps a distance ceiling to a flat transport charge.
// Zona resolution picks the lowest zone whose MaxKm covers the distance.
type ShippingZone struct {
	ID    uint    `gorm:"primaryKey;column:id" json:"id"`
	Zone  int     `gorm:"column:zone;uniqueIndex;not null" json:"zone"`
	MaxKm float64 `gorm:"column:max_km;not null" json:"max_km"`
	Price float64 `gorm:"column:price;not null" json:"price"`
}

// TableName specifies the table name for ShippingZone
func (ShippingZone) TableName() string {
	return "shipping_zones"
}

// ActivityLog records who changed what on an order
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	OrderID   uint      `gorm:"column:order_id;not null;index" json:"order_id"`
	Action    string    `gorm:"column:action;not null" json:"action"`
	Actor     string    `gorm:"column:actor;not null" json:"actor"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
