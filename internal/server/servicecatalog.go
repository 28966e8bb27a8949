package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/gestios/internal/servicecatalog/domain"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type catalogItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitValue   string `json:"unit_value"`
	Active      *bool  `json:"active"`
}

func (s *Server) CreateCatalogItem(c *gin.Context) {
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateCatalogItemRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		UnitValue:   strings.TrimSpace(req.UnitValue),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCatalogItem(c *gin.Context) {
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateCatalogItemRequest{
		ID: strings.TrimSpace(c.Param("id")),
		CreateCatalogItemRequest: catalogdomain.CreateCatalogItemRequest{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			UnitValue:   strings.TrimSpace(req.UnitValue),
		},
		Active: req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCatalogItems(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
		Active string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.catalogSvc.List(c.Request.Context(), catalogdomain.ListCatalogItemRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Search:    strings.TrimSpace(query.Search),
		Active:    active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCatalogItemByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetByID(c.Request.Context(), catalogdomain.GetCatalogItemRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ArchiveCatalogItem(c *gin.Context) {
	resp, err := s.catalogSvc.Archive(c.Request.Context(), catalogdomain.GetCatalogItemRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
