package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpponentCRUD(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewOpponentService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, "Rivais FC")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner.ID, created.ID, "Rivais Futebol Clube")
	require.NoError(t, err)
	require.Equal(t, "Rivais Futebol Clube", updated.Name)

	opponents, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, opponents, 1)

	require.NoError(t, svc.Delete(ctx, owner.ID, created.ID))

	opponents, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, opponents)
}

func TestOpponentDeleteWithMatchesConflicts(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewOpponentService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	opponent := createTestOpponent(t, db, owner.ID, "Rivais FC")
	createTestMatch(t, db, owner.ID, opponent.ID, "2026-02-07", 1, 0)

	require.ErrorIs(t, svc.Delete(ctx, owner.ID, opponent.ID), ErrOpponentInUse)
}

func TestOpponentScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewOpponentService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	opponent := createTestOpponent(t, db, owner.ID, "Rivais FC")

	_, err = svc.Update(ctx, other.ID, opponent.ID, "Roubado")
	require.ErrorIs(t, err, ErrOpponentNotFound)
	require.ErrorIs(t, svc.Delete(ctx, other.ID, opponent.ID), ErrOpponentNotFound)
}
