package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smallbiznis/gestios/internal/clock"
	"github.com/smallbiznis/gestios/internal/config"
	contactdomain "github.com/smallbiznis/gestios/internal/contact/domain"
	contactrepo "github.com/smallbiznis/gestios/internal/contact/repository"
	leadsourcedomain "github.com/smallbiznis/gestios/internal/leadsource/domain"
	leadsourcerepo "github.com/smallbiznis/gestios/internal/leadsource/repository"
	orgdomain "github.com/smallbiznis/gestios/internal/organization/domain"
	orgrepo "github.com/smallbiznis/gestios/internal/organization/repository"
	"github.com/smallbiznis/gestios/internal/orgcontext"
	"github.com/smallbiznis/gestios/internal/proposal/domain"
	proposalrepo "github.com/smallbiznis/gestios/internal/proposal/repository"
	"github.com/smallbiznis/gestios/internal/providers/pdf"
)

type stubPDF struct{}

func (stubPDF) GenerateProposal(ctx context.Context, data pdf.ProposalData) (io.Reader, error) {
	return strings.NewReader("%PDF-stub " + data.Code), nil
}

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	ctx   context.Context
	orgID snowflake.ID
}

var testDBCounter int

func newFixture(t *testing.T) *fixture {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:proposal_svc_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&orgdomain.Organization{},
		&contactdomain.Contact{},
		&leadsourcedomain.LeadSource{},
		&domain.Proposal{},
		&domain.ProposalSettings{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	holder, err := config.NewProposalConfigHolder()
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC))

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        proposalrepo.Provide(),
		Contacts:    contactrepo.Provide(),
		LeadSources: leadsourcerepo.Provide(),
		Orgs:        orgrepo.Provide(),
		PDF:         stubPDF{},
		Holder:      holder,
	})

	orgID := node.Generate()
	require.NoError(t, db.Create(&orgdomain.Organization{ID: orgID, Name: "Acme Services"}).Error)

	return &fixture{
		svc:   svc,
		db:    db,
		node:  node,
		clock: clk,
		ctx:   orgcontext.WithOrgID(context.Background(), orgID),
		orgID: orgID,
	}
}

func (f *fixture) seedContact(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&contactdomain.Contact{
		ID:    id,
		OrgID: f.orgID,
		Name:  "Jordan Client",
		Email: "jordan@example.com",
	}).Error)
	return id
}

func (f *fixture) seedSettings(t *testing.T, startingValue int64, tokens string) {
	t.Helper()
	require.NoError(t, f.db.Create(&domain.ProposalSettings{
		ID:            f.node.Generate(),
		OrgID:         f.orgID,
		StartingValue: startingValue,
		FormatTokens:  datatypes.JSON(tokens),
	}).Error)
}

func TestCreate_AutoNumberWithoutSettings(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	first, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Garden renovation",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", first.Code)
	require.NotNil(t, first.Sequence)
	assert.Equal(t, int64(1), *first.Sequence)
	assert.Equal(t, domain.StatusDraft, first.Status)

	second, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Roof repair",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "2", second.Code)
	require.NotNil(t, second.Sequence)
	assert.Equal(t, int64(2), *second.Sequence)
}

func TestCreate_FormattedCodeFromSettings(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)
	f.seedSettings(t, 1, `[{"prefixo": "PROP-", "param": "ano"}, {"prefixo": "-", "param": "numero"}]`)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Fence install",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "PROP-2024-1", created.Code)
}

func TestGenerateCode_PreviewDoesNotReserve(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)
	f.seedSettings(t, 1, `[{"prefixo": "N-", "param": "numero"}]`)

	preview, err := f.svc.GenerateCode(f.ctx)
	require.NoError(t, err)

	again, err := f.svc.GenerateCode(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, preview, again)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Deck build",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, preview, created.Code)

	next, err := f.svc.GenerateCode(f.ctx)
	require.NoError(t, err)
	assert.NotEqual(t, preview, next)
}

func TestCreate_ManualCodeDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	_, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "First",
		ContactID: contactID.String(),
		Code:      "CUSTOM-01",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Second",
		ContactID: contactID.String(),
		Code:      "CUSTOM-01",
	})
	assert.ErrorIs(t, err, domain.ErrCodeTaken)
}

// A static-only token configuration formats every sequence to the same
// string, so the pre-insert checks cannot find a free code and the
// allocator hands back the colliding one. The unique index on
// (org_id, code) must then reject the insert as a conflict.
func TestCreate_UniqueIndexBackstopsStaticCodes(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	_, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "First",
		ContactID: contactID.String(),
		Code:      "FIXED",
	})
	require.NoError(t, err)

	f.seedSettings(t, 1, `[{"prefixo": "FIXED"}]`)

	_, err = f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Second",
		ContactID: contactID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrCodeConflict)
}

func TestCreate_ManualCodeSkipsSequence(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Hand numbered",
		ContactID: contactID.String(),
		Code:      "LEGACY-77",
	})
	require.NoError(t, err)
	assert.Equal(t, "LEGACY-77", created.Code)
	assert.Nil(t, created.Sequence)

	// Automatic numbering is unaffected by hand-typed codes.
	auto, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Automatic",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", auto.Code)
}

func TestCreate_TotalsComputed(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:         "Kitchen remodel",
		ContactID:     contactID.String(),
		Items:         []byte(`[{"descricao": "demo", "valor": "100.005"}, {"descricao": "build", "valor": 50}]`),
		DiscountMode:  "percentual",
		DiscountInput: "10",
	})
	require.NoError(t, err)

	assert.Equal(t, "150.01", created.Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", created.DiscountValue.StringFixed(2))
	assert.Equal(t, "135.01", created.Total.StringFixed(2))
}

func TestCreate_InvalidInputs(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	_, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{ContactID: contactID.String()})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = f.svc.Create(f.ctx, domain.CreateProposalRequest{Title: "No contact"})
	assert.ErrorIs(t, err, domain.ErrInvalidContact)

	_, err = f.svc.Create(context.Background(), domain.CreateProposalRequest{
		Title:     "No org",
		ContactID: contactID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestCreate_LeadSourceValidated(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	sourceID := f.node.Generate()
	require.NoError(t, f.db.Create(&leadsourcedomain.LeadSource{
		ID:    sourceID,
		OrgID: f.orgID,
		Name:  "Referral",
	}).Error)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:        "Referred job",
		ContactID:    contactID.String(),
		LeadSourceID: sourceID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, created.LeadSourceID)
	assert.Equal(t, sourceID, *created.LeadSourceID)

	// An ID that references nothing is rejected, not stored.
	_, err = f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:        "Phantom source",
		ContactID:    contactID.String(),
		LeadSourceID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLeadSource)

	_, err = f.svc.Update(f.ctx, domain.UpdateProposalRequest{
		ID: created.ID.String(),
		CreateProposalRequest: domain.CreateProposalRequest{
			LeadSourceID: "not-a-snowflake",
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLeadSource)
}

func TestPublicWorkflow(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Public decision",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)

	fetched, err := f.svc.GetPublic(context.Background(), created.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, created.Code, fetched.Code)

	approved, err := f.svc.ApprovePublic(context.Background(), created.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = f.svc.RejectPublic(context.Background(), created.PublicToken)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
}

func TestPublicAccessDisabled(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	off := false
	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:        "Private",
		ContactID:    contactID.String(),
		PublicAccess: &off,
	})
	require.NoError(t, err)

	_, err = f.svc.GetPublic(context.Background(), created.PublicToken)
	assert.ErrorIs(t, err, domain.ErrPublicAccessDisabled)
}

func TestRequestRevision(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Needs changes",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)

	revised, err := f.svc.RequestRevision(context.Background(), domain.RequestRevisionRequest{
		Token:   created.PublicToken,
		Message: "Please include cleanup",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, revised.Status)
	assert.Equal(t, "Please include cleanup", revised.RevisionMessage)
	assert.NotNil(t, revised.RevisionRequestedAt)
}

func TestDuplicate_NewCodeAndToken(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	source, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Original",
		ContactID: contactID.String(),
		Items:     []byte(`[{"descricao": "work", "valor": "250"}]`),
	})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(f.ctx, domain.GetProposalRequest{ID: source.ID.String()}, domain.StatusApproved)
	require.NoError(t, err)

	clone, err := f.svc.Duplicate(f.ctx, domain.GetProposalRequest{ID: source.ID.String()})
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, clone.ID)
	assert.NotEqual(t, source.Code, clone.Code)
	assert.NotEqual(t, source.PublicToken, clone.PublicToken)
	assert.Equal(t, domain.StatusDraft, clone.Status)
	assert.Nil(t, clone.ApprovedAt)
	assert.Equal(t, "250.00", clone.Total.StringFixed(2))
}

func TestUpdate_RecomputesTotals(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Repricing",
		ContactID: contactID.String(),
		Items:     []byte(`[{"descricao": "a", "valor": "100"}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", created.Total.StringFixed(2))

	updated, err := f.svc.Update(f.ctx, domain.UpdateProposalRequest{
		ID: created.ID.String(),
		CreateProposalRequest: domain.CreateProposalRequest{
			Items:         []byte(`[{"descricao": "a", "valor": "100"}, {"descricao": "b", "valor": "60"}]`),
			DiscountMode:  "valor",
			DiscountInput: "10",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "160.00", updated.Subtotal.StringFixed(2))
	assert.Equal(t, "150.00", updated.Total.StringFixed(2))
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newFixture(t)

	initial, err := f.svc.GetSettings(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), initial.StartingValue)

	saved, err := f.svc.UpdateSettings(f.ctx, domain.UpdateSettingsRequest{
		StartingValue: 100,
		FormatTokens:  []byte(`[{"prefixo": "OR-", "param": "numero"}]`),
		Exclusions:    "Painting not included",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), saved.StartingValue)

	loaded, err := f.svc.GetSettings(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), loaded.StartingValue)
	assert.Equal(t, "Painting not included", loaded.Exclusions)

	contactID := f.seedContact(t)
	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Uses new numbering",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "OR-100", created.Code)
	assert.Equal(t, "Painting not included", created.Exclusions)
}

func TestRenderPDF(t *testing.T) {
	f := newFixture(t)
	contactID := f.seedContact(t)

	created, err := f.svc.Create(f.ctx, domain.CreateProposalRequest{
		Title:     "Printable",
		ContactID: contactID.String(),
	})
	require.NoError(t, err)

	doc, filename, err := f.svc.RenderPDF(f.ctx, domain.GetProposalRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "proposta-"+created.Code+".pdf", filename)
	assert.Contains(t, string(doc), created.Code)
}
