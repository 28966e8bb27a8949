// Package domain contains persistence models for the service catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CatalogItem is a reusable service with a default unit value. Proposal
// line items are free-form JSON; catalog items only pre-fill them.
type CatalogItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	UnitValue   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unit_value"`
	Active      bool            `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CatalogItem) TableName() string { return "catalog_items" }
