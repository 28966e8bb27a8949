package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/smallbiznis/gestios/pkg/db/option"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, proposal *domain.Proposal) error {
	return db.WithContext(ctx).Create(proposal).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, proposal *domain.Proposal) error {
	return db.WithContext(ctx).Save(proposal).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	res := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Proposal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := db.WithContext(ctx).
		First(&proposal, "org_id = ? AND id = ?", orgID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *repo) FindByPublicToken(ctx context.Context, db *gorm.DB, token uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := db.WithContext(ctx).
		First(&proposal, "public_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListProposalFilter, page pagination.Pagination) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	stmt := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("org_id = ?", orgID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.ContactID != 0 {
		stmt = stmt.Where("contact_id = ?", filter.ContactID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("code LIKE ? OR title LIKE ?", like, like)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *repo) MaxSequence(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (int64, error) {
	var max int64
	err := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("org_id = ?", orgID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *repo) CodeExists(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("org_id = ? AND code = ?", orgID, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) FindSettings(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.ProposalSettings, error) {
	var settings domain.ProposalSettings
	err := db.WithContext(ctx).
		First(&settings, "org_id = ?", orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repo) SaveSettings(ctx context.Context, db *gorm.DB, settings *domain.ProposalSettings) error {
	return db.WithContext(ctx).Save(settings).Error
}
