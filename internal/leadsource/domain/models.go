// Package domain contains persistence models for proposal lead sources.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LeadSource records where a proposal's client came from (referral,
// website, fair). Names are unique per organization, case-insensitively.
type LeadSource struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;uniqueIndex:ux_lead_source_org_name" json:"organization_id"`
	Name  string       `gorm:"not null;uniqueIndex:ux_lead_source_org_name" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (LeadSource) TableName() string { return "lead_sources" }
