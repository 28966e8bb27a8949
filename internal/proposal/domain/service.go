package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type CreateProposalRequest struct {
	Code  string
	Title string

	ContactID    string
	LeadSourceID string

	ServiceDate *time.Time
	ValidUntil  *time.Time

	PostalCode string
	Street     string
	Number     string
	District   string
	City       string
	State      string
	Complement string

	Items        []byte
	Installments []byte

	DiscountMode  string
	DiscountInput string

	ShowOnlyTotal bool

	Objective        string
	Scope            string
	Exclusions       string
	Declarations     string
	Confidentiality  string
	Signature        string
	LeadTimeStart    string
	LeadTimeDelivery string

	PublicAccess *bool
}

type UpdateProposalRequest struct {
	ID string
	CreateProposalRequest
}

type ListProposalRequest struct {
	PageToken   string
	PageSize    int32
	Status      string
	ContactID   string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListProposalResponse struct {
	pagination.PageInfo
	Proposals []Proposal `json:"proposals"`
}

type GetProposalRequest struct {
	ID string
}

type UpdateSettingsRequest struct {
	StartingValue int64
	FormatTokens  []byte

	Exclusions       string
	Declarations     string
	Confidentiality  string
	Acknowledgements string
	LeadTimeStart    string
	LeadTimeDelivery string
}

// RequestRevisionRequest carries the client's message from the public
// proposal page.
type RequestRevisionRequest struct {
	Token   uuid.UUID
	Message string
}

type Service interface {
	Create(context.Context, CreateProposalRequest) (Proposal, error)
	Update(context.Context, UpdateProposalRequest) (Proposal, error)
	GetByID(context.Context, GetProposalRequest) (Proposal, error)
	List(context.Context, ListProposalRequest) (ListProposalResponse, error)
	Delete(context.Context, GetProposalRequest) error
	Duplicate(context.Context, GetProposalRequest) (Proposal, error)
	SetStatus(ctx context.Context, req GetProposalRequest, status ProposalStatus) (Proposal, error)

	// GenerateCode previews the next automatic code without reserving it;
	// two consecutive calls return the same code.
	GenerateCode(context.Context) (string, error)

	GetSettings(context.Context) (ProposalSettings, error)
	UpdateSettings(context.Context, UpdateSettingsRequest) (ProposalSettings, error)

	// Public, token-scoped operations. No organization context.
	GetPublic(ctx context.Context, token uuid.UUID) (Proposal, error)
	ApprovePublic(ctx context.Context, token uuid.UUID) (Proposal, error)
	RejectPublic(ctx context.Context, token uuid.UUID) (Proposal, error)
	RequestRevision(context.Context, RequestRevisionRequest) (Proposal, error)

	RenderPDF(context.Context, GetProposalRequest) ([]byte, string, error)
}

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrInvalidTitle         = errors.New("invalid_title")
	ErrInvalidContact       = errors.New("invalid_contact")
	ErrInvalidLeadSource    = errors.New("invalid_lead_source")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrNotFound             = errors.New("not_found")
	ErrCodeTaken            = errors.New("code_taken")
	ErrCodeConflict         = errors.New("code_conflict")
	ErrPublicAccessDisabled = errors.New("public_access_disabled")
	ErrAlreadyDecided       = errors.New("already_decided")
)
