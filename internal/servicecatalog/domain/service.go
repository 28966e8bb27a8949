package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type CreateCatalogItemRequest struct {
	Name        string
	Description string
	UnitValue   string
}

type UpdateCatalogItemRequest struct {
	ID string
	CreateCatalogItemRequest
	Active *bool
}

type ListCatalogItemRequest struct {
	PageToken string
	PageSize  int32
	Search    string
	Active    *bool
}

type ListCatalogItemResponse struct {
	pagination.PageInfo
	Items []CatalogItem `json:"items"`
}

type GetCatalogItemRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCatalogItemRequest) (CatalogItem, error)
	Update(context.Context, UpdateCatalogItemRequest) (CatalogItem, error)
	GetByID(context.Context, GetCatalogItemRequest) (CatalogItem, error)
	List(context.Context, ListCatalogItemRequest) (ListCatalogItemResponse, error)
	Archive(context.Context, GetCatalogItemRequest) (CatalogItem, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidUnitValue    = errors.New("invalid_unit_value")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
