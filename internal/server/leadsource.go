package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leadsourcedomain "github.com/smallbiznis/gestios/internal/leadsource/domain"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type leadSourceRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateLeadSource(c *gin.Context) {
	var req leadSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSourceSvc.Create(c.Request.Context(), leadsourcedomain.CreateLeadSourceRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLeadSources(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSourceSvc.List(c.Request.Context(), leadsourcedomain.ListLeadSourceRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLeadSource(c *gin.Context) {
	err := s.leadSourceSvc.Delete(c.Request.Context(), leadsourcedomain.GetLeadSourceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
