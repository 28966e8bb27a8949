// Package domain contains persistence models for organizations (tenants).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is an isolated company account. Every proposal, contact,
// and configuration row is scoped to exactly one organization.
type Organization struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	Name     string       `gorm:"not null" json:"name"`
	Email    string       `gorm:"type:text" json:"email,omitempty"`
	Phone    string       `gorm:"type:text" json:"phone,omitempty"`
	Document string       `gorm:"type:text" json:"document,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
