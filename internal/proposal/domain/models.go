// Package domain contains persistence models and contracts for proposals.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gestios/internal/proposal/totals"
	"gorm.io/datatypes"
)

// ProposalStatus represents proposal lifecycle states.
type ProposalStatus string

const (
	StatusDraft      ProposalStatus = "DRAFT"
	StatusInProgress ProposalStatus = "IN_PROGRESS"
	StatusApproved   ProposalStatus = "APPROVED"
	StatusRejected   ProposalStatus = "REJECTED"
	StatusArchived   ProposalStatus = "ARCHIVED"
)

// Proposal is a commercial proposal sent to a client contact. Code is the
// human-facing identifier, unique per organization; Sequence is the
// internal counter backing automatic numbering and may be nil for
// proposals whose code was typed by hand.
type Proposal struct {
	ID       snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID    snowflake.ID   `gorm:"not null;uniqueIndex:ux_proposal_org_code" json:"organization_id"`
	Code     string         `gorm:"not null;uniqueIndex:ux_proposal_org_code" json:"code"`
	Sequence *int64         `gorm:"index" json:"sequence,omitempty"`
	Title    string         `gorm:"not null" json:"title"`
	Status   ProposalStatus `gorm:"type:text;not null;default:'DRAFT'" json:"status"`

	ContactID    snowflake.ID  `gorm:"not null;index" json:"contact_id"`
	LeadSourceID *snowflake.ID `gorm:"index" json:"lead_source_id,omitempty"`

	ServiceDate *time.Time `json:"service_date,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`

	// Work-site address.
	PostalCode string `gorm:"type:text" json:"postal_code,omitempty"`
	Street     string `gorm:"type:text" json:"street,omitempty"`
	Number     string `gorm:"type:text" json:"number,omitempty"`
	District   string `gorm:"type:text" json:"district,omitempty"`
	City       string `gorm:"type:text" json:"city,omitempty"`
	State      string `gorm:"type:text" json:"state,omitempty"`
	Complement string `gorm:"type:text" json:"complement,omitempty"`

	Items        datatypes.JSON `gorm:"not null;default:'[]'" json:"items"`
	Installments datatypes.JSON `gorm:"not null;default:'[]'" json:"installments"`

	DiscountMode  totals.DiscountMode `gorm:"type:text;not null;default:'valor'" json:"discount_mode"`
	DiscountInput decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"discount_input"`
	DiscountValue decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"discount_value"`
	Subtotal      decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"subtotal"`
	Total         decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	ShowOnlyTotal bool                `gorm:"not null;default:false" json:"show_only_total"`

	// Closing text sections.
	Objective        string `gorm:"type:text" json:"objective,omitempty"`
	Scope            string `gorm:"type:text" json:"scope,omitempty"`
	Exclusions       string `gorm:"type:text" json:"exclusions,omitempty"`
	Declarations     string `gorm:"type:text" json:"declarations,omitempty"`
	Confidentiality  string `gorm:"type:text" json:"confidentiality,omitempty"`
	Signature        string `gorm:"type:text" json:"signature,omitempty"`
	LeadTimeStart    string `gorm:"type:text" json:"lead_time_start,omitempty"`
	LeadTimeDelivery string `gorm:"type:text" json:"lead_time_delivery,omitempty"`

	// Public client-facing access.
	PublicToken  uuid.UUID `gorm:"type:uuid;index" json:"public_token"`
	PublicAccess bool      `gorm:"not null;default:true" json:"public_access"`

	ApprovedAt          *time.Time `json:"approved_at,omitempty"`
	RejectedAt          *time.Time `json:"rejected_at,omitempty"`
	RevisionRequestedAt *time.Time `json:"revision_requested_at,omitempty"`
	RevisionMessage     string     `gorm:"type:text" json:"revision_message,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Proposal) TableName() string { return "proposals" }

// rawItem mirrors the stored line-item JSON. Legacy records encode the
// value as a string, newer ones as a number, and some rows miss it
// entirely, so Value stays loosely typed here and is normalized below.
type rawItem struct {
	Description string          `json:"descricao"`
	Value       json.RawMessage `json:"valor"`
}

// LineItems normalizes the stored item JSON into well-typed lines. Values
// that are missing or unparseable contribute zero; this tolerance for
// legacy data is deliberate and never surfaces an error.
func (p *Proposal) LineItems() []totals.LineItem {
	var raws []rawItem
	if len(p.Items) == 0 || json.Unmarshal(p.Items, &raws) != nil {
		return nil
	}

	items := make([]totals.LineItem, 0, len(raws))
	for _, r := range raws {
		items = append(items, totals.LineItem{
			Description: r.Description,
			Value:       coerceDecimal(r.Value),
		})
	}
	return items
}

func coerceDecimal(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		d, err := decimal.NewFromString(asString)
		if err != nil {
			return decimal.Zero
		}
		return d
	}

	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}
	return d
}

// ApplyTotals recomputes the derived financial fields in place. It does
// not persist; that is the caller's job.
func (p *Proposal) ApplyTotals() {
	result := totals.Compute(p.LineItems(), p.DiscountMode, p.DiscountInput)
	p.Subtotal = result.Subtotal
	p.DiscountValue = result.Discount
	p.Total = result.Total
}
