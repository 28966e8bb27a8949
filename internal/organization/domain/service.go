package domain

import (
	"context"
	"errors"
)

type CreateOrganizationRequest struct {
	Name     string
	Email    string
	Phone    string
	Document string
}

type Service interface {
	Create(context.Context, CreateOrganizationRequest) (Organization, error)
	// Get returns the organization bound to the request context.
	Get(context.Context) (Organization, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrNotFound            = errors.New("not_found")
)
