package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/apikey/domain"
	"github.com/smallbiznis/gestios/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// keyPrefix marks gestios secrets so they are recognizable in leaked logs
// and secret scanners.
const keyPrefix = "gsk_"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("apikey.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Mint(ctx context.Context, req domain.MintKeyRequest) (domain.MintKeyResponse, error) {
	if req.OrgID == 0 {
		return domain.MintKeyResponse{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.MintKeyResponse{}, domain.ErrInvalidName
	}

	plaintext, err := newSecret()
	if err != nil {
		return domain.MintKeyResponse{}, err
	}

	key := domain.APIKey{
		ID:        s.genID.Generate(),
		OrgID:     req.OrgID,
		Name:      name,
		Prefix:    plaintext[:len(keyPrefix)+4],
		Hash:      HashToken(plaintext),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &key); err != nil {
		return domain.MintKeyResponse{}, err
	}

	s.log.Info("api key minted",
		zap.String("key_id", key.ID.String()),
		zap.String("organization_id", key.OrgID.String()),
	)

	return domain.MintKeyResponse{Key: key, Plaintext: plaintext}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (domain.APIKey, error) {
	token = strings.TrimSpace(token)
	if token == "" || !strings.HasPrefix(token, keyPrefix) {
		return domain.APIKey{}, domain.ErrInvalidKey
	}

	key, err := s.repo.FindByHash(ctx, s.db, HashToken(token))
	if err != nil {
		return domain.APIKey{}, err
	}
	if key == nil || key.Revoked() {
		return domain.APIKey{}, domain.ErrInvalidKey
	}

	// Best effort, auth must not fail because of the usage stamp.
	if err := s.repo.TouchLastUsed(ctx, s.db, key.ID, time.Now().UTC()); err != nil {
		s.log.Warn("touch last_used_at failed", zap.Error(err))
	}

	return *key, nil
}

func (s *Service) List(ctx context.Context) ([]domain.APIKey, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	keys, err := s.repo.ListByOrg(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.APIKey, 0, len(keys))
	for _, key := range keys {
		if key == nil {
			continue
		}
		out = append(out, *key)
	}
	return out, nil
}

func (s *Service) Revoke(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	keyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || keyID == 0 {
		return domain.ErrInvalidID
	}

	return s.repo.Revoke(ctx, s.db, orgID, keyID, time.Now().UTC())
}

// HashToken derives the stored digest for a plaintext key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return keyPrefix + hex.EncodeToString(buf), nil
}
