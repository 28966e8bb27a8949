package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListProposalFilter struct {
	Status      ProposalStatus
	ContactID   snowflake.ID
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, proposal *Proposal) error
	Update(ctx context.Context, db *gorm.DB, proposal *Proposal) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Proposal, error)
	FindByPublicToken(ctx context.Context, db *gorm.DB, token uuid.UUID) (*Proposal, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListProposalFilter, page pagination.Pagination) ([]*Proposal, error)

	// MaxSequence and CodeExists back the numbering allocator. Both are
	// plain reads; consistency across the read-then-insert gap is enforced
	// by the unique index on (org_id, code), not by locking.
	MaxSequence(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (int64, error)
	CodeExists(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (bool, error)

	FindSettings(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*ProposalSettings, error)
	SaveSettings(ctx context.Context, db *gorm.DB, settings *ProposalSettings) error
}
