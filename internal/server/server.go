// Package server exposes the HTTP API: organization-scoped admin routes
// authenticated by API key, plus the public client-facing proposal routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gestios/internal/apikey"
	apikeydomain "github.com/smallbiznis/gestios/internal/apikey/domain"
	"github.com/smallbiznis/gestios/internal/config"
	"github.com/smallbiznis/gestios/internal/contact"
	contactdomain "github.com/smallbiznis/gestios/internal/contact/domain"
	"github.com/smallbiznis/gestios/internal/leadsource"
	leadsourcedomain "github.com/smallbiznis/gestios/internal/leadsource/domain"
	"github.com/smallbiznis/gestios/internal/observability"
	obsmiddleware "github.com/smallbiznis/gestios/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gestios/internal/observability/metrics"
	"github.com/smallbiznis/gestios/internal/organization"
	organizationdomain "github.com/smallbiznis/gestios/internal/organization/domain"
	"github.com/smallbiznis/gestios/internal/proposal"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/smallbiznis/gestios/internal/providers/pdf"
	"github.com/smallbiznis/gestios/internal/ratelimit"
	"github.com/smallbiznis/gestios/internal/servicecatalog"
	catalogdomain "github.com/smallbiznis/gestios/internal/servicecatalog/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	apikey.Module,
	contact.Module,
	leadsource.Module,
	organization.Module,
	pdf.Module,
	proposal.Module,
	ratelimit.Module,
	servicecatalog.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	apiKeySvc       apikeydomain.Service
	organizationSvc organizationdomain.Service
	contactSvc      contactdomain.Service
	leadSourceSvc   leadsourcedomain.Service
	catalogSvc      catalogdomain.Service
	proposalSvc     proposaldomain.Service
	publicLimiter   *ratelimit.PublicLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	APIKeySvc       apikeydomain.Service
	OrganizationSvc organizationdomain.Service
	ContactSvc      contactdomain.Service
	LeadSourceSvc   leadsourcedomain.Service
	CatalogSvc      catalogdomain.Service
	ProposalSvc     proposaldomain.Service
	PublicLimiter   *ratelimit.PublicLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		apiKeySvc:       p.APIKeySvc,
		organizationSvc: p.OrganizationSvc,
		contactSvc:      p.ContactSvc,
		leadSourceSvc:   p.LeadSourceSvc,
		catalogSvc:      p.CatalogSvc,
		proposalSvc:     p.ProposalSvc,
		publicLimiter:   p.PublicLimiter,
	}

	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.APIKeyRequired())

	// -------- Organization --------
	api.GET("/organization", s.GetOrganization)

	// -------- API keys --------
	api.GET("/api_keys", s.ListAPIKeys)
	api.POST("/api_keys", s.MintAPIKey)
	api.DELETE("/api_keys/:id", s.RevokeAPIKey)

	// -------- Contacts --------
	api.GET("/contacts", s.ListContacts)
	api.POST("/contacts", s.CreateContact)
	api.GET("/contacts/:id", s.GetContactByID)
	api.PATCH("/contacts/:id", s.UpdateContact)
	api.DELETE("/contacts/:id", s.DeleteContact)

	// -------- Lead sources --------
	api.GET("/lead_sources", s.ListLeadSources)
	api.POST("/lead_sources", s.CreateLeadSource)
	api.DELETE("/lead_sources/:id", s.DeleteLeadSource)

	// -------- Service catalog --------
	api.GET("/catalog_items", s.ListCatalogItems)
	api.POST("/catalog_items", s.CreateCatalogItem)
	api.GET("/catalog_items/:id", s.GetCatalogItemByID)
	api.PATCH("/catalog_items/:id", s.UpdateCatalogItem)
	api.POST("/catalog_items/:id/archive", s.ArchiveCatalogItem)

	// -------- Proposals --------
	api.GET("/proposals", s.ListProposals)
	api.POST("/proposals", s.CreateProposal)
	api.POST("/proposals/generate-number", s.GenerateProposalNumber)
	api.GET("/proposals/:id", s.GetProposalByID)
	api.PATCH("/proposals/:id", s.UpdateProposal)
	api.DELETE("/proposals/:id", s.DeleteProposal)
	api.POST("/proposals/:id/duplicate", s.DuplicateProposal)
	api.POST("/proposals/:id/status", s.SetProposalStatus)
	api.GET("/proposals/:id/pdf", s.RenderProposalPDF)

	// -------- Proposal settings --------
	api.GET("/proposal_settings", s.GetProposalSettings)
	api.PUT("/proposal_settings", s.UpdateProposalSettings)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/p", s.PublicRateLimit())

	public.GET("/:token", s.GetPublicProposal)
	public.POST("/:token/approve", s.ApprovePublicProposal)
	public.POST("/:token/reject", s.RejectPublicProposal)
	public.POST("/:token/revision", s.RequestProposalRevision)
}
