package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/gestios/pkg/db/pagination"
)

type CreateContactRequest struct {
	Name  string
	Email string
	Phone string

	PostalCode string
	Street     string
	Number     string
	District   string
	City       string
	State      string
}

type UpdateContactRequest struct {
	ID string
	CreateContactRequest
}

type ListContactRequest struct {
	PageToken string
	PageSize  int32
	Search    string
}

type ListContactResponse struct {
	pagination.PageInfo
	Contacts []Contact `json:"contacts"`
}

type GetContactRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateContactRequest) (Contact, error)
	Update(context.Context, UpdateContactRequest) (Contact, error)
	GetByID(context.Context, GetContactRequest) (Contact, error)
	List(context.Context, ListContactRequest) (ListContactResponse, error)
	Delete(context.Context, GetContactRequest) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrContactInUse        = errors.New("contact_in_use")
)
