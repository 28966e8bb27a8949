package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apikeydomain "github.com/smallbiznis/gestios/internal/apikey/domain"
	apikeyrepo "github.com/smallbiznis/gestios/internal/apikey/repository"
	apikeyservice "github.com/smallbiznis/gestios/internal/apikey/service"
	"github.com/smallbiznis/gestios/internal/clock"
	"github.com/smallbiznis/gestios/internal/config"
	contactdomain "github.com/smallbiznis/gestios/internal/contact/domain"
	contactrepo "github.com/smallbiznis/gestios/internal/contact/repository"
	contactservice "github.com/smallbiznis/gestios/internal/contact/service"
	leadsourcedomain "github.com/smallbiznis/gestios/internal/leadsource/domain"
	leadsourcerepo "github.com/smallbiznis/gestios/internal/leadsource/repository"
	leadsourceservice "github.com/smallbiznis/gestios/internal/leadsource/service"
	orgdomain "github.com/smallbiznis/gestios/internal/organization/domain"
	orgrepo "github.com/smallbiznis/gestios/internal/organization/repository"
	orgservice "github.com/smallbiznis/gestios/internal/organization/service"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
	proposalrepo "github.com/smallbiznis/gestios/internal/proposal/repository"
	proposalservice "github.com/smallbiznis/gestios/internal/proposal/service"
	"github.com/smallbiznis/gestios/internal/providers/pdf"
	catalogdomain "github.com/smallbiznis/gestios/internal/servicecatalog/domain"
	catalogrepo "github.com/smallbiznis/gestios/internal/servicecatalog/repository"
	catalogservice "github.com/smallbiznis/gestios/internal/servicecatalog/service"
)

type stubPDF struct{}

func (stubPDF) GenerateProposal(ctx context.Context, data pdf.ProposalData) (io.Reader, error) {
	return bytes.NewReader([]byte("%PDF-stub")), nil
}

var serverDBCounter int

func newTestServer(t *testing.T) (*Server, string, snowflake.ID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	serverDBCounter++
	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", serverDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orgdomain.Organization{},
		&apikeydomain.APIKey{},
		&contactdomain.Contact{},
		&leadsourcedomain.LeadSource{},
		&catalogdomain.CatalogItem{},
		&proposaldomain.Proposal{},
		&proposaldomain.ProposalSettings{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	holder, err := config.NewProposalConfigHolder()
	require.NoError(t, err)

	apiKeySvc := apikeyservice.New(apikeyservice.Params{
		DB: db, Log: log, GenID: node, Repo: apikeyrepo.Provide(),
	})
	orgSvc := orgservice.New(orgservice.Params{
		DB: db, Log: log, GenID: node, Repo: orgrepo.Provide(),
	})
	contactSvc := contactservice.New(contactservice.Params{
		DB: db, Log: log, GenID: node, Repo: contactrepo.Provide(),
	})
	leadSourceSvc := leadsourceservice.New(leadsourceservice.Params{
		DB: db, Log: log, GenID: node, Repo: leadsourcerepo.Provide(),
	})
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	proposalSvc := proposalservice.New(proposalservice.Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       clock.NewFakeClock(time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)),
		Repo:        proposalrepo.Provide(),
		Contacts:    contactrepo.Provide(),
		LeadSources: leadsourcerepo.Provide(),
		Orgs:        orgrepo.Provide(),
		PDF:         stubPDF{},
		Holder:      holder,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:             engine,
		Cfg:             config.Config{Environment: "test"},
		DB:              db,
		GenID:           node,
		APIKeySvc:       apiKeySvc,
		OrganizationSvc: orgSvc,
		ContactSvc:      contactSvc,
		LeadSourceSvc:   leadSourceSvc,
		CatalogSvc:      catalogSvc,
		ProposalSvc:     proposalSvc,
	})

	orgID := node.Generate()
	require.NoError(t, db.Create(&orgdomain.Organization{ID: orgID, Name: "Acme Services"}).Error)

	minted, err := apiKeySvc.Mint(context.Background(), apikeydomain.MintKeyRequest{OrgID: orgID, Name: "test"})
	require.NoError(t, err)

	return srv, minted.Plaintext, orgID
}

func doRequest(srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestAPIRoutes_RequireAPIKey(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/proposals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/proposals", "gsk_bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateProposalNumber_WireFormat(t *testing.T) {
	srv, token, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/proposals/generate-number", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK     bool   `json:"ok"`
		Numero string `json:"numero"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "1", resp.Numero)

	// Preview twice: same number, nothing reserved.
	rec = doRequest(srv, http.MethodPost, "/api/proposals/generate-number", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1", resp.Numero)
}

func TestProposalLifecycleOverHTTP(t *testing.T) {
	srv, token, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/contacts", token, gin.H{"name": "Jordan Client"})
	require.Equal(t, http.StatusOK, rec.Code)
	var contactResp struct {
		Data struct {
			ID snowflake.ID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contactResp))

	rec = doRequest(srv, http.MethodPost, "/api/proposals", token, gin.H{
		"title":          "Garden renovation",
		"contact_id":     contactResp.Data.ID.String(),
		"items":          json.RawMessage(`[{"descricao": "work", "valor": "150"}]`),
		"discount_mode":  "percentual",
		"discount_input": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var proposalResp struct {
		Data proposaldomain.Proposal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proposalResp))
	assert.Equal(t, "1", proposalResp.Data.Code)
	assert.Equal(t, "135.00", proposalResp.Data.Total.StringFixed(2))

	// Duplicate manual code comes back as a field-level validation error.
	rec = doRequest(srv, http.MethodPost, "/api/proposals", token, gin.H{
		"title":      "Clone",
		"contact_id": contactResp.Data.ID.String(),
		"code":       "1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "code_taken")

	// Public approval through the tokenized route.
	publicToken := proposalResp.Data.PublicToken.String()
	rec = doRequest(srv, http.MethodPost, "/p/"+publicToken+"/approve", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"APPROVED"`)

	rec = doRequest(srv, http.MethodPost, "/p/"+publicToken+"/reject", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLeadSourceRoutes(t *testing.T) {
	srv, token, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/lead_sources", token, gin.H{"name": "Referral"})
	require.Equal(t, http.StatusOK, rec.Code)
	var sourceResp struct {
		Data leadsourcedomain.LeadSource `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sourceResp))

	// Retyping the name, in any case, returns the existing source.
	rec = doRequest(srv, http.MethodPost, "/api/lead_sources", token, gin.H{"name": "referral"})
	require.Equal(t, http.StatusOK, rec.Code)
	var again struct {
		Data leadsourcedomain.LeadSource `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, sourceResp.Data.ID, again.Data.ID)

	rec = doRequest(srv, http.MethodPost, "/api/contacts", token, gin.H{"name": "Sam Client"})
	require.Equal(t, http.StatusOK, rec.Code)
	var contactResp struct {
		Data struct {
			ID snowflake.ID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contactResp))

	rec = doRequest(srv, http.MethodPost, "/api/proposals", token, gin.H{
		"title":          "Referred work",
		"contact_id":     contactResp.Data.ID.String(),
		"lead_source_id": sourceResp.Data.ID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// An unknown lead source is a field-level validation error.
	rec = doRequest(srv, http.MethodPost, "/api/proposals", token, gin.H{
		"title":          "Bad source",
		"contact_id":     contactResp.Data.ID.String(),
		"lead_source_id": "424242424242",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_lead_source")

	// A referenced source refuses deletion.
	rec = doRequest(srv, http.MethodDelete, "/api/lead_sources/"+sourceResp.Data.ID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPublicRouteUnknownToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/p/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/p/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
