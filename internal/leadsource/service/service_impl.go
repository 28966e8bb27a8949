package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/leadsource/domain"
	"github.com/smallbiznis/gestios/internal/orgcontext"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("leadsource.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadSourceRequest) (domain.LeadSource, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.LeadSource{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.LeadSource{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByName(ctx, s.db, orgID, name)
	if err != nil {
		return domain.LeadSource{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	now := time.Now().UTC()
	source := domain.LeadSource{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &source); err != nil {
		return domain.LeadSource{}, err
	}

	return source, nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadSourceRequest) (domain.ListLeadSourceResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListLeadSourceResponse{}, domain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListLeadSourceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(source *domain.LeadSource) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        source.ID.String(),
			CreatedAt: source.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	sources := make([]domain.LeadSource, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sources = append(sources, *item)
	}

	resp := domain.ListLeadSourceResponse{LeadSources: sources}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetLeadSourceRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	source, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if source == nil {
		return domain.ErrNotFound
	}

	referenced, err := s.repo.Referenced(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrLeadSourceInUse
	}

	return s.repo.Delete(ctx, s.db, orgID, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
