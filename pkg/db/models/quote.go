package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/b2b-quotes/pkg/enums"
)

// Quote is the seller quote document. Records are owned by the quotes app;
// this service only reads them.
type Quote struct {
	ID             string            `gorm:"column:id;primaryKey"`
	Seller         string            `gorm:"column:seller;not null;index"`
	Organization   string            `gorm:"column:organization;not null"`
	CostCenter     string            `gorm:"column:cost_center;not null"`
	ReferenceName  string            `gorm:"column:reference_name;not null"`
	CreatorEmail   string            `gorm:"column:creator_email;not null"`
	CreatorRole    string            `gorm:"column:creator_role"`
	Status         enums.QuoteStatus `gorm:"column:status;not null"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(18,2);not null;default:0"`
	Items          []QuoteItem       `gorm:"column:items;serializer:json"`
	UpdateHistory  []QuoteUpdate     `gorm:"column:update_history;serializer:json"`
	ExpirationDate *time.Time        `gorm:"column:expiration_date"`
	CreationDate   time.Time         `gorm:"column:creation_date;not null"`
	LastUpdate     time.Time         `gorm:"column:last_update;not null"`
}

// TableName pins the table used for quote documents.
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is a single quoted SKU line.
type QuoteItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SkuName      string          `json:"skuName,omitempty"`
	Quantity     int             `json:"quantity"`
	ListPrice    decimal.Decimal `json:"listPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// QuoteUpdate is one entry in a quote's history.
type QuoteUpdate struct {
	Email  string            `json:"email"`
	Role   string            `json:"role,omitempty"`
	Date   time.Time         `json:"date"`
	Status enums.QuoteStatus `json:"status"`
	Note   string            `json:"note,omitempty"`
}
