package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type CreateLeadSourceRequest struct {
	Name string
}

type ListLeadSourceRequest struct {
	PageToken string
	PageSize  int32
}

type ListLeadSourceResponse struct {
	pagination.PageInfo
	LeadSources []LeadSource `json:"lead_sources"`
}

type GetLeadSourceRequest struct {
	ID string
}

type Service interface {
	// Create returns the existing lead source when the name already
	// exists for the organization, ignoring case. The proposal screen
	// creates sources inline and retyping one must not error.
	Create(context.Context, CreateLeadSourceRequest) (LeadSource, error)
	List(context.Context, ListLeadSourceRequest) (ListLeadSourceResponse, error)
	Delete(context.Context, GetLeadSourceRequest) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrLeadSourceInUse     = errors.New("lead_source_in_use")
)
