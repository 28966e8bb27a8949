package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/proposal/numbering"
	"gorm.io/datatypes"
)

// ProposalSettings holds per-organization defaults: automatic numbering
// plus the closing texts copied onto new proposals. At most one row per
// organization; absence is not an error and means bare-sequence codes.
type ProposalSettings struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;uniqueIndex" json:"organization_id"`

	StartingValue int64          `gorm:"not null;default:1" json:"starting_value"`
	FormatTokens  datatypes.JSON `gorm:"not null;default:'[]'" json:"format_tokens"`

	Exclusions       string `gorm:"type:text" json:"exclusions,omitempty"`
	Declarations     string `gorm:"type:text" json:"declarations,omitempty"`
	Confidentiality  string `gorm:"type:text" json:"confidentiality,omitempty"`
	Acknowledgements string `gorm:"type:text" json:"acknowledgements,omitempty"`
	LeadTimeStart    string `gorm:"type:text" json:"lead_time_start,omitempty"`
	LeadTimeDelivery string `gorm:"type:text" json:"lead_time_delivery,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ProposalSettings) TableName() string { return "proposal_settings" }

// NumberingConfig decodes the stored token list. Malformed token JSON
// degrades to an empty token list rather than failing, which formats as
// the bare displayed number.
func (s *ProposalSettings) NumberingConfig() *numbering.Config {
	if s == nil {
		return nil
	}

	cfg := &numbering.Config{StartingValue: s.StartingValue}
	if len(s.FormatTokens) > 0 {
		_ = json.Unmarshal(s.FormatTokens, &cfg.Tokens)
	}
	return cfg
}
