package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
)

func newShareFixture(t *testing.T, db *gorm.DB) *ShareService {
	t.Helper()

	owners, err := NewOwnerService(db)
	require.NoError(t, err)
	svc, err := NewShareService(db, owners)
	require.NoError(t, err)
	return svc
}

func TestShareGetOrCreateIsStable(t *testing.T) {
	db := openTestDB(t)
	svc := newShareFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	token, err := svc.GetOrCreate(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, token, 32)

	// The token is minted once and never rotated.
	again, err := svc.GetOrCreate(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, token, again)

	var rows int64
	require.NoError(t, db.Model(&models.TeamShare{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestShareGetOrCreateAllowsAdmins(t *testing.T) {
	db := openTestDB(t)
	svc := newShareFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	outsider := createTestUser(t, db, "outsider@example.com")
	require.NoError(t, db.Create(&models.TeamAdmin{OwnerID: owner.ID, AdminID: admin.ID}).Error)

	token, err := svc.GetOrCreate(ctx, owner.ID, admin.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Strangers get nothing, and no row is minted on their behalf.
	none, err := svc.GetOrCreate(ctx, owner.ID, outsider.ID)
	require.NoError(t, err)
	require.Empty(t, none)

	var rows int64
	require.NoError(t, db.Model(&models.TeamShare{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestShareResolveOwnerFailsClosed(t *testing.T) {
	db := openTestDB(t)
	svc := newShareFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	token, err := svc.GetOrCreate(ctx, owner.ID, owner.ID)
	require.NoError(t, err)

	resolved, err := svc.ResolveOwner(ctx, token)
	require.NoError(t, err)
	require.Equal(t, owner.ID, resolved)

	_, err = svc.ResolveOwner(ctx, "0000000000000000000000000000dead")
	require.ErrorIs(t, err, ErrShareNotFound)

	_, err = svc.ResolveOwner(ctx, "")
	require.ErrorIs(t, err, ErrShareNotFound)
}
