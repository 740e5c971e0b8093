package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
)

func newInviteFixture(t *testing.T, db *gorm.DB, opts ...InviteOption) *InviteService {
	t.Helper()

	owners, err := NewOwnerService(db)
	require.NoError(t, err)
	teams, err := NewTeamService(db)
	require.NoError(t, err)
	users, err := NewUserService(db, teams)
	require.NoError(t, err)

	svc, err := NewInviteService(db, owners, users, nil, opts...)
	require.NoError(t, err)
	return svc
}

func TestInviteCreateAndAccept(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db, WithInviteBaseURL("https://rachao.example"))
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	guest := createTestUser(t, db, "guest@example.com")

	invite, link, err := svc.Create(ctx, owner.ID, owner.ID, "Guest@Example.com", "Galáticos")
	require.NoError(t, err)
	require.Equal(t, "guest@example.com", invite.Email)
	require.Len(t, invite.Token, 64)
	require.Equal(t, "https://rachao.example/auth/aceitar-convite?token="+invite.Token, link)

	accepted, err := svc.Accept(ctx, invite.Token, guest.ID, "guest@example.com")
	require.NoError(t, err)
	require.Equal(t, owner.ID, accepted.OwnerID)
	require.Equal(t, "Galáticos", accepted.TeamName)
	require.False(t, accepted.AlreadyAdmin)

	var grants int64
	require.NoError(t, db.Model(&models.TeamAdmin{}).
		Where("owner_id = ? AND admin_id = ?", owner.ID, guest.ID).
		Count(&grants).Error)
	require.EqualValues(t, 1, grants)

	// The invite is consumed on acceptance.
	_, err = svc.Info(ctx, invite.Token)
	require.ErrorIs(t, err, ErrInviteInvalid)
}

func TestInviteAcceptIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	guest := createTestUser(t, db, "guest@example.com")

	// A second invite after the first was accepted hits the existing grant.
	first, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)
	_, err = svc.Accept(ctx, first.Token, guest.ID, "guest@example.com")
	require.NoError(t, err)

	second, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, second.Token, guest.ID, "guest@example.com")
	require.NoError(t, err)
	require.True(t, accepted.AlreadyAdmin)

	// The grant is unique; a duplicate acceptance never inserts a second row.
	var grants int64
	require.NoError(t, db.Model(&models.TeamAdmin{}).Count(&grants).Error)
	require.EqualValues(t, 1, grants)

	// Consumed either way.
	_, err = svc.Info(ctx, second.Token)
	require.ErrorIs(t, err, ErrInviteInvalid)
}

func TestInviteAcceptWrongEmail(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")

	invite, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, invite.Token, stranger.ID, "stranger@example.com")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "INVITE_WRONG_ACCOUNT", appErr.Code)
	require.Contains(t, appErr.Message, "guest@example.com")

	// The invite survives a wrong-account attempt.
	_, err = svc.Info(ctx, invite.Token)
	require.NoError(t, err)
}

func TestInviteDuplicatePendingConflicts(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	_, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)

	_, _, err = svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.ErrorIs(t, err, ErrAlreadyInvited)
}

func TestInviteCreateRequiresOwner(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	require.NoError(t, db.Create(&models.TeamAdmin{OwnerID: owner.ID, AdminID: admin.ID}).Error)

	// Admins manage data, not access.
	_, _, err := svc.Create(ctx, owner.ID, admin.ID, "other@example.com", "")
	require.ErrorIs(t, err, ErrInviteNotOwner)

	// Nor can an admin invite on their own behalf while their view is
	// delegated to the owner.
	_, _, err = svc.Create(ctx, admin.ID, admin.ID, "other@example.com", "")
	require.ErrorIs(t, err, ErrInviteNotOwner)
}

func TestInviteExpiry(t *testing.T) {
	db := openTestDB(t)

	current := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	svc := newInviteFixture(t, db,
		WithInviteExpiry(72*time.Hour),
		WithInviteClock(func() time.Time { return current }),
	)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	guest := createTestUser(t, db, "guest@example.com")

	invite, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)

	// Still valid just before the deadline.
	current = current.Add(72*time.Hour - time.Minute)
	_, err = svc.Info(ctx, invite.Token)
	require.NoError(t, err)

	// Gone once past it, for preview and acceptance alike.
	current = current.Add(2 * time.Minute)
	_, err = svc.Info(ctx, invite.Token)
	require.ErrorIs(t, err, ErrInviteInvalid)
	_, err = svc.Accept(ctx, invite.Token, guest.ID, "guest@example.com")
	require.ErrorIs(t, err, ErrInviteInvalid)

	removed, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
}

func TestInviteDelete(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	invite, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, invite.ID, owner.ID, owner.ID))
	require.ErrorIs(t, svc.Delete(ctx, invite.ID, owner.ID, owner.ID), apperrors.ErrNotFound)
}

func TestInviteOverviewPurgesConsumedInvites(t *testing.T) {
	db := openTestDB(t)
	svc := newInviteFixture(t, db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	guest := createTestUser(t, db, "guest@example.com")

	// An invite whose email already holds a grant is stale; the overview
	// read purges it.
	invite, _, err := svc.Create(ctx, owner.ID, owner.ID, "guest@example.com", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.TeamAdmin{OwnerID: owner.ID, AdminID: guest.ID}).Error)

	pendingInvite, _, err := svc.Create(ctx, owner.ID, owner.ID, "waiting@example.com", "")
	require.NoError(t, err)

	overview, err := svc.Overview(ctx, owner.ID)
	require.NoError(t, err)

	require.Len(t, overview.Users, 2)
	require.Equal(t, "owner", overview.Users[0].Role)
	require.Equal(t, "owner@example.com", overview.Users[0].Email)
	require.Equal(t, "admin", overview.Users[1].Role)
	require.Equal(t, "guest@example.com", overview.Users[1].Email)

	require.Len(t, overview.Pending, 1)
	require.Equal(t, pendingInvite.ID, overview.Pending[0].ID)

	var remaining int64
	require.NoError(t, db.Model(&models.PendingInvite{}).
		Where("id = ?", invite.ID).
		Count(&remaining).Error)
	require.Zero(t, remaining)
}
