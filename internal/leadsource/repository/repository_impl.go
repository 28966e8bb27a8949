package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/leadsource/domain"
	"github.com/smallbiznis/gestios/pkg/db/option"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, source *domain.LeadSource) error {
	return db.WithContext(ctx).Create(source).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.LeadSource{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.LeadSource, error) {
	var source domain.LeadSource
	err := db.WithContext(ctx).
		First(&source, "org_id = ? AND id = ?", orgID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*domain.LeadSource, error) {
	var source domain.LeadSource
	err := db.WithContext(ctx).
		First(&source, "org_id = ? AND LOWER(name) = LOWER(?)", orgID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, page pagination.Pagination) ([]*domain.LeadSource, error) {
	var sources []*domain.LeadSource
	stmt := db.WithContext(ctx).
		Model(&domain.LeadSource{}).
		Where("org_id = ?", orgID)
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *repo) Referenced(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("proposals").
		Where("org_id = ? AND lead_source_id = ?", orgID, id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
