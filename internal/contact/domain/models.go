// Package domain contains persistence models for client contacts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Contact is a client in an organization's address book. Proposals
// reference contacts and refuse deletion while referenced.
type Contact struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Name  string       `gorm:"not null" json:"name"`
	Email string       `gorm:"type:text" json:"email,omitempty"`
	Phone string       `gorm:"type:text" json:"phone,omitempty"`

	// Billing address.
	PostalCode string `gorm:"type:text" json:"postal_code,omitempty"`
	Street     string `gorm:"type:text" json:"street,omitempty"`
	Number     string `gorm:"type:text" json:"number,omitempty"`
	District   string `gorm:"type:text" json:"district,omitempty"`
	City       string `gorm:"type:text" json:"city,omitempty"`
	State      string `gorm:"type:text" json:"state,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Contact) TableName() string { return "contacts" }
