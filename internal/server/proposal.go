package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type proposalRequest struct {
	Code  string `json:"code"`
	Title string `json:"title"`

	ContactID    string `json:"contact_id"`
	LeadSourceID string `json:"lead_source_id"`

	ServiceDate string `json:"service_date"`
	ValidUntil  string `json:"valid_until"`

	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Complement string `json:"complement"`

	Items        json.RawMessage `json:"items"`
	Installments json.RawMessage `json:"installments"`

	DiscountMode  string `json:"discount_mode"`
	DiscountInput string `json:"discount_input"`

	ShowOnlyTotal bool `json:"show_only_total"`

	Objective        string `json:"objective"`
	Scope            string `json:"scope"`
	Exclusions       string `json:"exclusions"`
	Declarations     string `json:"declarations"`
	Confidentiality  string `json:"confidentiality"`
	Signature        string `json:"signature"`
	LeadTimeStart    string `json:"lead_time_start"`
	LeadTimeDelivery string `json:"lead_time_delivery"`

	PublicAccess *bool `json:"public_access"`
}

func (r proposalRequest) toDomain() (proposaldomain.CreateProposalRequest, error) {
	serviceDate, err := parseOptionalTime(r.ServiceDate, false)
	if err != nil {
		return proposaldomain.CreateProposalRequest{}, newValidationError("service_date", "invalid_service_date", "invalid service_date")
	}
	validUntil, err := parseOptionalTime(r.ValidUntil, true)
	if err != nil {
		return proposaldomain.CreateProposalRequest{}, newValidationError("valid_until", "invalid_valid_until", "invalid valid_until")
	}

	return proposaldomain.CreateProposalRequest{
		Code:             strings.TrimSpace(r.Code),
		Title:            strings.TrimSpace(r.Title),
		ContactID:        strings.TrimSpace(r.ContactID),
		LeadSourceID:     strings.TrimSpace(r.LeadSourceID),
		ServiceDate:      serviceDate,
		ValidUntil:       validUntil,
		PostalCode:       r.PostalCode,
		Street:           r.Street,
		Number:           r.Number,
		District:         r.District,
		City:             r.City,
		State:            r.State,
		Complement:       r.Complement,
		Items:            r.Items,
		Installments:     r.Installments,
		DiscountMode:     strings.TrimSpace(r.DiscountMode),
		DiscountInput:    strings.TrimSpace(r.DiscountInput),
		ShowOnlyTotal:    r.ShowOnlyTotal,
		Objective:        r.Objective,
		Scope:            r.Scope,
		Exclusions:       r.Exclusions,
		Declarations:     r.Declarations,
		Confidentiality:  r.Confidentiality,
		Signature:        r.Signature,
		LeadTimeStart:    r.LeadTimeStart,
		LeadTimeDelivery: r.LeadTimeDelivery,
		PublicAccess:     r.PublicAccess,
	}, nil
}

func (s *Server) CreateProposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.proposalSvc.Create(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.proposalSvc.Update(c.Request.Context(), proposaldomain.UpdateProposalRequest{
		ID:                    strings.TrimSpace(c.Param("id")),
		CreateProposalRequest: domainReq,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProposals(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status      string `form:"status"`
		ContactID   string `form:"contact_id"`
		Search      string `form:"search"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.proposalSvc.List(c.Request.Context(), proposaldomain.ListProposalRequest{
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
		Status:      strings.TrimSpace(query.Status),
		ContactID:   strings.TrimSpace(query.ContactID),
		Search:      strings.TrimSpace(query.Search),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProposalByID(c *gin.Context) {
	resp, err := s.proposalSvc.GetByID(c.Request.Context(), proposaldomain.GetProposalRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProposal(c *gin.Context) {
	err := s.proposalSvc.Delete(c.Request.Context(), proposaldomain.GetProposalRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) DuplicateProposal(c *gin.Context) {
	resp, err := s.proposalSvc.Duplicate(c.Request.Context(), proposaldomain.GetProposalRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetProposalStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := proposaldomain.ProposalStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	resp, err := s.proposalSvc.SetStatus(c.Request.Context(), proposaldomain.GetProposalRequest{
		ID: strings.TrimSpace(c.Param("id")),
	}, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GenerateProposalNumber previews the next automatic code. Nothing is
// reserved, so the response keys mirror what the creation form expects.
func (s *Server) GenerateProposalNumber(c *gin.Context) {
	code, err := s.proposalSvc.GenerateCode(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "numero": code})
}

func (s *Server) RenderProposalPDF(c *gin.Context) {
	doc, filename, err := s.proposalSvc.RenderPDF(c.Request.Context(), proposaldomain.GetProposalRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
