package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
)

// publicProposalView strips internal fields from the client-facing page.
type publicProposalView struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Status string `json:"status"`

	ServiceDate *string `json:"service_date,omitempty"`
	ValidUntil  *string `json:"valid_until,omitempty"`

	Items         any    `json:"items"`
	Installments  any    `json:"installments"`
	ShowOnlyTotal bool   `json:"show_only_total"`
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	Total         string `json:"total"`

	Objective        string `json:"objective,omitempty"`
	Scope            string `json:"scope,omitempty"`
	Exclusions       string `json:"exclusions,omitempty"`
	Declarations     string `json:"declarations,omitempty"`
	Confidentiality  string `json:"confidentiality,omitempty"`
	Signature        string `json:"signature,omitempty"`
	LeadTimeStart    string `json:"lead_time_start,omitempty"`
	LeadTimeDelivery string `json:"lead_time_delivery,omitempty"`
}

func toPublicView(p proposaldomain.Proposal) publicProposalView {
	view := publicProposalView{
		Code:             p.Code,
		Title:            p.Title,
		Status:           string(p.Status),
		Items:            p.Items,
		Installments:     p.Installments,
		ShowOnlyTotal:    p.ShowOnlyTotal,
		Subtotal:         p.Subtotal.StringFixed(2),
		Discount:         p.DiscountValue.StringFixed(2),
		Total:            p.Total.StringFixed(2),
		Objective:        p.Objective,
		Scope:            p.Scope,
		Exclusions:       p.Exclusions,
		Declarations:     p.Declarations,
		Confidentiality:  p.Confidentiality,
		Signature:        p.Signature,
		LeadTimeStart:    p.LeadTimeStart,
		LeadTimeDelivery: p.LeadTimeDelivery,
	}
	if p.ServiceDate != nil {
		v := p.ServiceDate.Format(dateOnlyLayout)
		view.ServiceDate = &v
	}
	if p.ValidUntil != nil {
		v := p.ValidUntil.Format(dateOnlyLayout)
		view.ValidUntil = &v
	}
	return view
}

func parsePublicToken(c *gin.Context) (uuid.UUID, error) {
	token, err := uuid.Parse(strings.TrimSpace(c.Param("token")))
	if err != nil {
		return uuid.Nil, proposaldomain.ErrNotFound
	}
	return token, nil
}

func (s *Server) GetPublicProposal(c *gin.Context) {
	token, err := parsePublicToken(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.proposalSvc.GetPublic(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toPublicView(resp)})
}

func (s *Server) ApprovePublicProposal(c *gin.Context) {
	token, err := parsePublicToken(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.proposalSvc.ApprovePublic(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toPublicView(resp)})
}

func (s *Server) RejectPublicProposal(c *gin.Context) {
	token, err := parsePublicToken(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.proposalSvc.RejectPublic(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toPublicView(resp)})
}

func (s *Server) RequestProposalRevision(c *gin.Context) {
	token, err := parsePublicToken(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.proposalSvc.RequestRevision(c.Request.Context(), proposaldomain.RequestRevisionRequest{
		Token:   token,
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toPublicView(resp)})
}
