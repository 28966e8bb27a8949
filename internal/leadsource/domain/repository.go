package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, source *LeadSource) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*LeadSource, error)
	FindByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*LeadSource, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, page pagination.Pagination) ([]*LeadSource, error)
	Referenced(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
}
