package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contact *Contact) error
	Update(ctx context.Context, db *gorm.DB, contact *Contact) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Contact, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, search string, page pagination.Pagination) ([]*Contact, error)
	Referenced(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
}
