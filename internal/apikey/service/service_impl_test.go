package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/gestios/internal/apikey/domain"
	"github.com/smallbiznis/gestios/internal/apikey/repository"
	"github.com/smallbiznis/gestios/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:apikey_svc?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.APIKey{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM api_keys")
	})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node.Generate()
}

func TestMintAndAuthenticate(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := context.Background()

	minted, err := svc.Mint(ctx, domain.MintKeyRequest{OrgID: orgID, Name: "ci"})
	require.NoError(t, err)
	assert.True(t, len(minted.Plaintext) > 10)
	assert.NotContains(t, minted.Key.Hash, minted.Plaintext)

	key, err := svc.Authenticate(ctx, minted.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, orgID, key.OrgID)
	assert.Equal(t, "ci", key.Name)
}

func TestAuthenticate_RejectsUnknownAndMalformed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)

	_, err = svc.Authenticate(ctx, "not-a-key")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)

	_, err = svc.Authenticate(ctx, "gsk_deadbeef")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestRevoke_DisablesKey(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := context.Background()

	minted, err := svc.Mint(ctx, domain.MintKeyRequest{OrgID: orgID, Name: "temp"})
	require.NoError(t, err)

	orgCtx := orgcontext.WithOrgID(ctx, orgID)
	require.NoError(t, svc.Revoke(orgCtx, minted.Key.ID.String()))

	_, err = svc.Authenticate(ctx, minted.Plaintext)
	assert.ErrorIs(t, err, domain.ErrInvalidKey)

	// Revoking twice reports not found.
	assert.ErrorIs(t, svc.Revoke(orgCtx, minted.Key.ID.String()), domain.ErrNotFound)
}
