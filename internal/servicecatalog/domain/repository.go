package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListCatalogItemFilter struct {
	Search string
	Active *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *CatalogItem) error
	Update(ctx context.Context, db *gorm.DB, item *CatalogItem) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*CatalogItem, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListCatalogItemFilter, page pagination.Pagination) ([]*CatalogItem, error)
}
