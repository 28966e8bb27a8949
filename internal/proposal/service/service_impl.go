package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contactdomain "github.com/smallbiznis/gestios/internal/contact/domain"
	"github.com/smallbiznis/gestios/internal/clock"
	"github.com/smallbiznis/gestios/internal/config"
	leadsourcedomain "github.com/smallbiznis/gestios/internal/leadsource/domain"
	orgdomain "github.com/smallbiznis/gestios/internal/organization/domain"
	"github.com/smallbiznis/gestios/internal/orgcontext"
	"github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/smallbiznis/gestios/internal/proposal/numbering"
	"github.com/smallbiznis/gestios/internal/proposal/totals"
	"github.com/smallbiznis/gestios/internal/providers/pdf"
	"github.com/smallbiznis/gestios/pkg/db"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	Contacts    contactdomain.Repository
	LeadSources leadsourcedomain.Repository
	Orgs        orgdomain.Repository
	PDF         pdf.Provider
	Holder      *config.ProposalConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	contacts    contactdomain.Repository
	leadSources leadsourcedomain.Repository
	orgs        orgdomain.Repository
	pdf         pdf.Provider
	holder      *config.ProposalConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("proposal.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		contacts:    p.Contacts,
		leadSources: p.LeadSources,
		orgs:        p.Orgs,
		pdf:         p.PDF,
		holder:      p.Holder,
	}
}

// numberingStore adapts the repository to the allocator's read-only view,
// binding the database handle the service already holds.
type numberingStore struct {
	db   *gorm.DB
	repo domain.Repository
}

func (s numberingStore) MaxSequence(ctx context.Context, orgID snowflake.ID) (int64, error) {
	return s.repo.MaxSequence(ctx, s.db, orgID)
}

func (s numberingStore) CodeExists(ctx context.Context, orgID snowflake.ID, code string) (bool, error) {
	return s.repo.CodeExists(ctx, s.db, orgID, code)
}

func (s *Service) allocator() *numbering.Allocator {
	return numbering.NewAllocator(numberingStore{db: s.db, repo: s.repo}, s.clock)
}

func (s *Service) Create(ctx context.Context, req domain.CreateProposalRequest) (domain.Proposal, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Proposal{}, domain.ErrInvalidOrganization
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Proposal{}, domain.ErrInvalidTitle
	}

	contactID, err := snowflake.ParseString(strings.TrimSpace(req.ContactID))
	if err != nil || contactID == 0 {
		return domain.Proposal{}, domain.ErrInvalidContact
	}
	contact, err := s.contacts.FindByID(ctx, s.db, orgID, contactID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if contact == nil {
		return domain.Proposal{}, domain.ErrInvalidContact
	}

	leadSourceID, err := s.resolveLeadSource(ctx, orgID, req.LeadSourceID)
	if err != nil {
		return domain.Proposal{}, err
	}

	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return domain.Proposal{}, err
	}

	proposal := domain.Proposal{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		Title:        title,
		Status:       domain.StatusDraft,
		ContactID:    contactID,
		LeadSourceID: leadSourceID,
		PublicToken:  uuid.New(),
		PublicAccess: true,
	}
	s.applyFields(&proposal, req, settings)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		allocated, seq, err := s.allocator().Allocate(ctx, orgID, settings.NumberingConfig())
		if err != nil {
			return domain.Proposal{}, err
		}
		proposal.Code = allocated
		proposal.Sequence = &seq
	} else {
		taken, err := s.repo.CodeExists(ctx, s.db, orgID, code)
		if err != nil {
			return domain.Proposal{}, err
		}
		if taken {
			return domain.Proposal{}, domain.ErrCodeTaken
		}
		proposal.Code = code
	}

	if proposal.ValidUntil == nil {
		if days := s.holder.Get().DefaultValidityDays; days > 0 {
			until := s.clock.Now().AddDate(0, 0, days)
			proposal.ValidUntil = &until
		}
	}

	now := s.clock.Now()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now
	proposal.ApplyTotals()

	if err := s.repo.Insert(ctx, s.db, &proposal); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Proposal{}, domain.ErrCodeConflict
		}
		return domain.Proposal{}, err
	}

	s.log.Info("proposal created",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("organization_id", orgID.String()),
		zap.String("code", proposal.Code),
	)

	return proposal, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProposalRequest) (domain.Proposal, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Proposal{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Proposal{}, err
	}

	proposal, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal == nil {
		return domain.Proposal{}, domain.ErrNotFound
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		proposal.Title = title
	}

	if raw := strings.TrimSpace(req.ContactID); raw != "" {
		contactID, err := snowflake.ParseString(raw)
		if err != nil || contactID == 0 {
			return domain.Proposal{}, domain.ErrInvalidContact
		}
		contact, err := s.contacts.FindByID(ctx, s.db, orgID, contactID)
		if err != nil {
			return domain.Proposal{}, err
		}
		if contact == nil {
			return domain.Proposal{}, domain.ErrInvalidContact
		}
		proposal.ContactID = contactID
	}

	if raw := strings.TrimSpace(req.LeadSourceID); raw != "" {
		leadSourceID, err := s.resolveLeadSource(ctx, orgID, raw)
		if err != nil {
			return domain.Proposal{}, err
		}
		proposal.LeadSourceID = leadSourceID
	}

	// A manually retyped code must be free before we attempt the save; the
	// unique index still backstops the race.
	if code := strings.TrimSpace(req.Code); code != "" && code != proposal.Code {
		taken, err := s.repo.CodeExists(ctx, s.db, orgID, code)
		if err != nil {
			return domain.Proposal{}, err
		}
		if taken {
			return domain.Proposal{}, domain.ErrCodeTaken
		}
		proposal.Code = code
		proposal.Sequence = nil
	}

	s.applyFields(proposal, req.CreateProposalRequest, nil)
	proposal.UpdatedAt = s.clock.Now()
	proposal.ApplyTotals()

	if err := s.repo.Update(ctx, s.db, proposal); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Proposal{}, domain.ErrCodeConflict
		}
		return domain.Proposal{}, err
	}

	return *proposal, nil
}

// applyFields copies the writable request fields onto the proposal.
// Settings supply closing-text defaults on create only; updates never fall
// back to them.
func (s *Service) applyFields(p *domain.Proposal, req domain.CreateProposalRequest, settings *domain.ProposalSettings) {
	if req.ServiceDate != nil {
		p.ServiceDate = req.ServiceDate
	}
	if req.ValidUntil != nil {
		p.ValidUntil = req.ValidUntil
	}

	p.PostalCode = strings.TrimSpace(req.PostalCode)
	p.Street = strings.TrimSpace(req.Street)
	p.Number = strings.TrimSpace(req.Number)
	p.District = strings.TrimSpace(req.District)
	p.City = strings.TrimSpace(req.City)
	p.State = strings.TrimSpace(req.State)
	p.Complement = strings.TrimSpace(req.Complement)

	if req.Items != nil {
		p.Items = datatypes.JSON(req.Items)
	}
	if len(p.Items) == 0 {
		p.Items = datatypes.JSON("[]")
	}
	if req.Installments != nil {
		p.Installments = datatypes.JSON(req.Installments)
	}
	if len(p.Installments) == 0 {
		p.Installments = datatypes.JSON("[]")
	}

	p.DiscountMode = totals.ParseDiscountMode(req.DiscountMode)
	p.DiscountInput = parseAmount(req.DiscountInput)
	p.ShowOnlyTotal = req.ShowOnlyTotal

	p.Objective = strings.TrimSpace(req.Objective)
	p.Scope = strings.TrimSpace(req.Scope)
	p.Exclusions = strings.TrimSpace(req.Exclusions)
	p.Declarations = strings.TrimSpace(req.Declarations)
	p.Confidentiality = strings.TrimSpace(req.Confidentiality)
	p.Signature = strings.TrimSpace(req.Signature)
	p.LeadTimeStart = strings.TrimSpace(req.LeadTimeStart)
	p.LeadTimeDelivery = strings.TrimSpace(req.LeadTimeDelivery)

	if settings != nil {
		if p.Exclusions == "" {
			p.Exclusions = settings.Exclusions
		}
		if p.Declarations == "" {
			p.Declarations = settings.Declarations
		}
		if p.Confidentiality == "" {
			p.Confidentiality = settings.Confidentiality
		}
		if p.LeadTimeStart == "" {
			p.LeadTimeStart = settings.LeadTimeStart
		}
		if p.LeadTimeDelivery == "" {
			p.LeadTimeDelivery = settings.LeadTimeDelivery
		}
	}

	if req.PublicAccess != nil {
		p.PublicAccess = *req.PublicAccess
	}
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProposalRequest) (domain.Proposal, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Proposal{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Proposal{}, err
	}

	proposal, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal == nil {
		return domain.Proposal{}, domain.ErrNotFound
	}

	return *proposal, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProposalRequest) (domain.ListProposalResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListProposalResponse{}, domain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := domain.ListProposalFilter{
		Status:      domain.ProposalStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		Search:      strings.TrimSpace(req.Search),
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}
	if raw := strings.TrimSpace(req.ContactID); raw != "" {
		contactID, err := snowflake.ParseString(raw)
		if err != nil || contactID == 0 {
			return domain.ListProposalResponse{}, domain.ErrInvalidContact
		}
		filter.ContactID = contactID
	}

	proposals, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListProposalResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(proposals, pageSize, func(p *domain.Proposal) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(proposals) > int(pageSize) {
		proposals = proposals[:pageSize]
	}

	out := make([]domain.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p == nil {
			continue
		}
		out = append(out, *p)
	}

	resp := domain.ListProposalResponse{Proposals: out}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetProposalRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, s.db, orgID, id)
}

// Duplicate clones a proposal as a fresh draft: new automatic code, new
// public token, decision state cleared.
func (s *Service) Duplicate(ctx context.Context, req domain.GetProposalRequest) (domain.Proposal, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Proposal{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Proposal{}, err
	}

	source, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if source == nil {
		return domain.Proposal{}, domain.ErrNotFound
	}

	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return domain.Proposal{}, err
	}
	code, seq, err := s.allocator().Allocate(ctx, orgID, settings.NumberingConfig())
	if err != nil {
		return domain.Proposal{}, err
	}

	clone := *source
	clone.ID = s.genID.Generate()
	clone.Code = code
	clone.Sequence = &seq
	clone.Status = domain.StatusDraft
	clone.PublicToken = uuid.New()
	clone.ApprovedAt = nil
	clone.RejectedAt = nil
	clone.RevisionRequestedAt = nil
	clone.RevisionMessage = ""

	now := s.clock.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &clone); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Proposal{}, domain.ErrCodeConflict
		}
		return domain.Proposal{}, err
	}

	return clone, nil
}

func (s *Service) SetStatus(ctx context.Context, req domain.GetProposalRequest, status domain.ProposalStatus) (domain.Proposal, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Proposal{}, domain.ErrInvalidOrganization
	}

	switch status {
	case domain.StatusDraft, domain.StatusInProgress, domain.StatusApproved,
		domain.StatusRejected, domain.StatusArchived:
	default:
		return domain.Proposal{}, domain.ErrInvalidStatus
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Proposal{}, err
	}

	proposal, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal == nil {
		return domain.Proposal{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	proposal.Status = status
	switch status {
	case domain.StatusApproved:
		proposal.ApprovedAt = &now
	case domain.StatusRejected:
		proposal.RejectedAt = &now
	}
	proposal.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, proposal); err != nil {
		return domain.Proposal{}, err
	}

	return *proposal, nil
}

func (s *Service) GenerateCode(ctx context.Context) (string, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return "", domain.ErrInvalidOrganization
	}

	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return "", err
	}

	code, _, err := s.allocator().Allocate(ctx, orgID, settings.NumberingConfig())
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *Service) GetSettings(ctx context.Context) (domain.ProposalSettings, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ProposalSettings{}, domain.ErrInvalidOrganization
	}

	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return domain.ProposalSettings{}, err
	}
	if settings == nil {
		return domain.ProposalSettings{
			OrgID:         orgID,
			StartingValue: 1,
			FormatTokens:  datatypes.JSON("[]"),
		}, nil
	}

	return *settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (domain.ProposalSettings, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ProposalSettings{}, domain.ErrInvalidOrganization
	}

	now := s.clock.Now()
	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return domain.ProposalSettings{}, err
	}
	if settings == nil {
		settings = &domain.ProposalSettings{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			CreatedAt: now,
		}
	}

	settings.StartingValue = req.StartingValue
	if settings.StartingValue <= 0 {
		settings.StartingValue = 1
	}
	if req.FormatTokens != nil {
		settings.FormatTokens = datatypes.JSON(req.FormatTokens)
	}
	if len(settings.FormatTokens) == 0 {
		settings.FormatTokens = datatypes.JSON("[]")
	}

	settings.Exclusions = strings.TrimSpace(req.Exclusions)
	settings.Declarations = strings.TrimSpace(req.Declarations)
	settings.Confidentiality = strings.TrimSpace(req.Confidentiality)
	settings.Acknowledgements = strings.TrimSpace(req.Acknowledgements)
	settings.LeadTimeStart = strings.TrimSpace(req.LeadTimeStart)
	settings.LeadTimeDelivery = strings.TrimSpace(req.LeadTimeDelivery)
	settings.UpdatedAt = now

	if err := s.repo.SaveSettings(ctx, s.db, settings); err != nil {
		return domain.ProposalSettings{}, err
	}

	return *settings, nil
}

func (s *Service) GetPublic(ctx context.Context, token uuid.UUID) (domain.Proposal, error) {
	proposal, err := s.findPublic(ctx, token)
	if err != nil {
		return domain.Proposal{}, err
	}
	return *proposal, nil
}

func (s *Service) ApprovePublic(ctx context.Context, token uuid.UUID) (domain.Proposal, error) {
	return s.decidePublic(ctx, token, domain.StatusApproved)
}

func (s *Service) RejectPublic(ctx context.Context, token uuid.UUID) (domain.Proposal, error) {
	return s.decidePublic(ctx, token, domain.StatusRejected)
}

func (s *Service) RequestRevision(ctx context.Context, req domain.RequestRevisionRequest) (domain.Proposal, error) {
	proposal, err := s.findPublic(ctx, req.Token)
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal.ApprovedAt != nil || proposal.RejectedAt != nil {
		return domain.Proposal{}, domain.ErrAlreadyDecided
	}

	now := s.clock.Now()
	proposal.Status = domain.StatusInProgress
	proposal.RevisionRequestedAt = &now
	proposal.RevisionMessage = strings.TrimSpace(req.Message)
	proposal.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, proposal); err != nil {
		return domain.Proposal{}, err
	}

	s.log.Info("revision requested",
		zap.String("proposal_id", proposal.ID.String()),
	)

	return *proposal, nil
}

func (s *Service) decidePublic(ctx context.Context, token uuid.UUID, status domain.ProposalStatus) (domain.Proposal, error) {
	proposal, err := s.findPublic(ctx, token)
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal.ApprovedAt != nil || proposal.RejectedAt != nil {
		return domain.Proposal{}, domain.ErrAlreadyDecided
	}

	now := s.clock.Now()
	proposal.Status = status
	switch status {
	case domain.StatusApproved:
		proposal.ApprovedAt = &now
	case domain.StatusRejected:
		proposal.RejectedAt = &now
	}
	proposal.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, proposal); err != nil {
		return domain.Proposal{}, err
	}

	s.log.Info("proposal decided",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("status", string(status)),
	)

	return *proposal, nil
}

func (s *Service) findPublic(ctx context.Context, token uuid.UUID) (*domain.Proposal, error) {
	if token == uuid.Nil {
		return nil, domain.ErrNotFound
	}

	proposal, err := s.repo.FindByPublicToken(ctx, s.db, token)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, domain.ErrNotFound
	}
	if !proposal.PublicAccess {
		return nil, domain.ErrPublicAccessDisabled
	}

	return proposal, nil
}

func (s *Service) RenderPDF(ctx context.Context, req domain.GetProposalRequest) ([]byte, string, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, "", domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return nil, "", err
	}

	proposal, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, "", err
	}
	if proposal == nil {
		return nil, "", domain.ErrNotFound
	}

	org, err := s.orgs.FindByID(ctx, s.db, orgID)
	if err != nil {
		return nil, "", err
	}
	contact, err := s.contacts.FindByID(ctx, s.db, orgID, proposal.ContactID)
	if err != nil {
		return nil, "", err
	}

	data := buildPDFData(proposal, org, contact)
	reader, err := s.pdf.GenerateProposal(ctx, data)
	if err != nil {
		return nil, "", err
	}
	doc, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", err
	}

	return doc, "proposta-" + proposal.Code + ".pdf", nil
}

func buildPDFData(p *domain.Proposal, org *orgdomain.Organization, contact *contactdomain.Contact) pdf.ProposalData {
	data := pdf.ProposalData{
		Code:          p.Code,
		Title:         p.Title,
		IssueDate:     p.CreatedAt.Format("2006-01-02"),
		ShowOnlyTotal: p.ShowOnlyTotal,
		SiteAddress:   joinNonEmpty(p.Street, p.Number, p.Complement, p.District, p.City, p.State, p.PostalCode),
		Subtotal:      p.Subtotal.StringFixed(2),
		Discount:      p.DiscountValue.StringFixed(2),
		Total:         p.Total.StringFixed(2),
	}
	if p.ValidUntil != nil {
		data.ValidUntil = p.ValidUntil.Format("2006-01-02")
	}
	if org != nil {
		data.OrgName = org.Name
		data.OrgEmail = org.Email
		data.OrgPhone = org.Phone
	}
	if contact != nil {
		data.ClientName = contact.Name
		data.ClientEmail = contact.Email
		data.ClientPhone = contact.Phone
	}

	for _, item := range p.LineItems() {
		data.Items = append(data.Items, pdf.ProposalItem{
			Description: item.Description,
			Value:       item.Value.Round(2).StringFixed(2),
		})
	}

	sections := []pdf.ProposalSection{
		{Title: "Objective", Body: p.Objective},
		{Title: "Scope", Body: p.Scope},
		{Title: "Exclusions", Body: p.Exclusions},
		{Title: "Declarations", Body: p.Declarations},
		{Title: "Confidentiality", Body: p.Confidentiality},
		{Title: "Lead time", Body: joinNonEmpty(p.LeadTimeStart, p.LeadTimeDelivery)},
		{Title: "Signature", Body: p.Signature},
	}
	for _, section := range sections {
		if section.Body != "" {
			data.Sections = append(data.Sections, section)
		}
	}

	return data
}

// resolveLeadSource parses and verifies an optional lead source
// reference. Blank input means none was supplied.
func (s *Service) resolveLeadSource(ctx context.Context, orgID snowflake.ID, raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidLeadSource
	}
	source, err := s.leadSources.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, domain.ErrInvalidLeadSource
	}

	return &id, nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// parseAmount is deliberately lenient: stored discounts predate input
// validation, so unparseable values count as zero instead of erroring.
func parseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}
