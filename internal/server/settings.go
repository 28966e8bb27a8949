package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/smallbiznis/gestios/internal/proposal/numbering"
)

func (s *Server) GetProposalSettings(c *gin.Context) {
	resp, err := s.proposalSvc.GetSettings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProposalSettings(c *gin.Context) {
	var req struct {
		StartingValue int64             `json:"starting_value"`
		FormatTokens  []numbering.Token `json:"format_tokens"`

		Exclusions       string `json:"exclusions"`
		Declarations     string `json:"declarations"`
		Confidentiality  string `json:"confidentiality"`
		Acknowledgements string `json:"acknowledgements"`
		LeadTimeStart    string `json:"lead_time_start"`
		LeadTimeDelivery string `json:"lead_time_delivery"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// Token parameters are normalized so unrecognized values are stored as
	// static-only tokens rather than rejected.
	for i := range req.FormatTokens {
		req.FormatTokens[i].Parameter = numbering.ParseParameter(string(req.FormatTokens[i].Parameter))
	}
	tokens, err := json.Marshal(req.FormatTokens)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.proposalSvc.UpdateSettings(c.Request.Context(), proposaldomain.UpdateSettingsRequest{
		StartingValue:    req.StartingValue,
		FormatTokens:     tokens,
		Exclusions:       req.Exclusions,
		Declarations:     req.Declarations,
		Confidentiality:  req.Confidentiality,
		Acknowledgements: req.Acknowledgements,
		LeadTimeStart:    req.LeadTimeStart,
		LeadTimeDelivery: req.LeadTimeDelivery,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
