// Package seed bootstraps an empty development database with a default
// organization and a usable API key so the HTTP API works immediately.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apikeydomain "github.com/smallbiznis/gestios/internal/apikey/domain"
	apikeyservice "github.com/smallbiznis/gestios/internal/apikey/service"
	orgdomain "github.com/smallbiznis/gestios/internal/organization/domain"
)

const (
	defaultOrgName   = "Main"
	defaultOrgEmail  = "admin@gestios.local"
	defaultKeyName   = "dev"
	defaultKeyPrefix = "gsk_"
)

// EnsureDefaultOrg creates the default organization and an API key when no
// organization exists yet. The plaintext key is logged once; it is not
// recoverable afterwards.
func EnsureDefaultOrg(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&orgdomain.Organization{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		org := orgdomain.Organization{
			ID:        node.Generate(),
			Name:      defaultOrgName,
			Email:     defaultOrgEmail,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
			return err
		}

		buf := make([]byte, 24)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		plaintext := defaultKeyPrefix + hex.EncodeToString(buf)

		key := apikeydomain.APIKey{
			ID:        node.Generate(),
			OrgID:     org.ID,
			Name:      defaultKeyName,
			Prefix:    plaintext[:len(defaultKeyPrefix)+4],
			Hash:      apikeyservice.HashToken(plaintext),
			CreatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&key).Error; err != nil {
			return err
		}

		log.Info("seeded default organization",
			zap.String("organization_id", org.ID.String()),
			zap.String("api_key", plaintext),
		)

		return nil
	})
}
