// Package domain contains persistence models and contracts for API keys.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// APIKey authenticates programmatic access and binds every request to one
// organization. Only the SHA-256 digest of the secret is stored; the
// plaintext is shown once at mint time.
type APIKey struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID  snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Name   string       `gorm:"not null" json:"name"`
	Prefix string       `gorm:"not null" json:"prefix"`
	Hash   string       `gorm:"not null;uniqueIndex" json:"-"`

	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }

func (k *APIKey) Revoked() bool { return k.RevokedAt != nil }

type MintKeyRequest struct {
	OrgID snowflake.ID
	Name  string
}

// MintKeyResponse carries the one-time plaintext secret.
type MintKeyResponse struct {
	Key       APIKey `json:"key"`
	Plaintext string `json:"plaintext"`
}

type Service interface {
	Mint(context.Context, MintKeyRequest) (MintKeyResponse, error)
	// Authenticate resolves a bearer token to its key, rejecting revoked
	// or unknown tokens.
	Authenticate(ctx context.Context, token string) (APIKey, error)
	List(ctx context.Context) ([]APIKey, error)
	Revoke(ctx context.Context, id string) error
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, key *APIKey) error
	FindByHash(ctx context.Context, db *gorm.DB, hash string) (*APIKey, error)
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*APIKey, error)
	Revoke(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, at time.Time) error
	TouchLastUsed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidKey          = errors.New("invalid_api_key")
	ErrNotFound            = errors.New("not_found")
)
