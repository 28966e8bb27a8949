package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/gestios/internal/leadsource/domain"
	"github.com/smallbiznis/gestios/internal/leadsource/repository"
	"github.com/smallbiznis/gestios/internal/orgcontext"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testDBCounter int

func newTestService(t *testing.T) (domain.Service, *gorm.DB, context.Context, snowflake.ID, *snowflake.Node) {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:leadsource_svc_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.LeadSource{}, &proposaldomain.Proposal{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	orgID := node.Generate()
	ctx := orgcontext.WithOrgID(context.Background(), orgID)
	return svc, db, ctx, orgID, node
}

func TestCreate_ReusesExistingNameIgnoringCase(t *testing.T) {
	svc, _, ctx, _, _ := newTestService(t)

	first, err := svc.Create(ctx, domain.CreateLeadSourceRequest{Name: "Referral"})
	require.NoError(t, err)

	second, err := svc.Create(ctx, domain.CreateLeadSourceRequest{Name: "  referral "})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Referral", second.Name)

	_, err = svc.Create(ctx, domain.CreateLeadSourceRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestDelete_RefusesWhileReferenced(t *testing.T) {
	svc, db, ctx, orgID, node := newTestService(t)

	source, err := svc.Create(ctx, domain.CreateLeadSourceRequest{Name: "Fair"})
	require.NoError(t, err)

	sourceID := source.ID
	require.NoError(t, db.Create(&proposaldomain.Proposal{
		ID:           node.Generate(),
		OrgID:        orgID,
		Code:         "1",
		Title:        "Booth lead",
		ContactID:    node.Generate(),
		LeadSourceID: &sourceID,
	}).Error)

	assert.ErrorIs(t, svc.Delete(ctx, domain.GetLeadSourceRequest{ID: sourceID.String()}), domain.ErrLeadSourceInUse)

	require.NoError(t, db.Delete(&proposaldomain.Proposal{}, "org_id = ?", orgID).Error)
	require.NoError(t, svc.Delete(ctx, domain.GetLeadSourceRequest{ID: sourceID.String()}))

	assert.ErrorIs(t, svc.Delete(ctx, domain.GetLeadSourceRequest{ID: sourceID.String()}), domain.ErrNotFound)
}
