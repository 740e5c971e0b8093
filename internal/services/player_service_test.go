package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgarcez/rachao/internal/models"
)

func TestPlayerCRUD(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewPlayerService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, PlayerInput{
		Name:     "Zico",
		Position: "Meia",
		WhatsApp: "+5511999990000",
	})
	require.NoError(t, err)
	require.Equal(t, owner.ID, created.OwnerID)

	updated, err := svc.Update(ctx, owner.ID, created.ID, PlayerInput{
		Name:     "Zico",
		Position: "Atacante",
	})
	require.NoError(t, err)
	require.Equal(t, "Atacante", updated.Position)
	require.Empty(t, updated.WhatsApp)

	players, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)

	require.NoError(t, svc.Delete(ctx, owner.ID, created.ID))

	players, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, players)
}

func TestPlayerListOrderedByName(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewPlayerService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	createTestPlayer(t, db, owner.ID, "Zico")
	createTestPlayer(t, db, owner.ID, "Adriano")

	players, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, "Adriano", players[0].Name)
	require.Equal(t, "Zico", players[1].Name)
}

func TestPlayerDeleteWithHistoryConflicts(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewPlayerService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	player := createTestPlayer(t, db, owner.ID, "Zico")
	opponent := createTestOpponent(t, db, owner.ID, "Rivais FC")
	match := createTestMatch(t, db, owner.ID, opponent.ID, "2026-02-07", 1, 0)

	require.NoError(t, db.Create(&models.MatchPlayer{
		MatchID: match.ID, PlayerID: player.ID, Starter: true, OwnerID: owner.ID,
	}).Error)

	require.ErrorIs(t, svc.Delete(ctx, owner.ID, player.ID), ErrPlayerInUse)

	// Still present after the refused delete.
	players, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)
}

func TestPlayerScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewPlayerService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	player := createTestPlayer(t, db, owner.ID, "Zico")

	_, err = svc.Update(ctx, other.ID, player.ID, PlayerInput{Name: "Hacker"})
	require.ErrorIs(t, err, ErrPlayerNotFound)
	require.ErrorIs(t, svc.Delete(ctx, other.ID, player.ID), ErrPlayerNotFound)
}
