package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/database"
	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/pkg/crypto"
)

// openTestDB returns an isolated in-memory database migrated with the full
// schema. The DSN is derived from the test name so parallel tests never share
// state.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrateAll(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{Email: email, Password: hashed}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPlayer(t *testing.T, db *gorm.DB, ownerID, name string) *models.Player {
	t.Helper()

	player := &models.Player{OwnerID: ownerID, Name: name}
	require.NoError(t, db.Create(player).Error)
	return player
}

func createTestOpponent(t *testing.T, db *gorm.DB, ownerID, name string) *models.Opponent {
	t.Helper()

	opponent := &models.Opponent{OwnerID: ownerID, Name: name}
	require.NoError(t, db.Create(opponent).Error)
	return opponent
}

func createTestMatch(t *testing.T, db *gorm.DB, ownerID, opponentID, date string, goalsFor, goalsAgainst int) *models.Match {
	t.Helper()

	parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	require.NoError(t, err)

	match := &models.Match{
		OwnerID:      ownerID,
		OpponentID:   opponentID,
		MatchDate:    datatypes.Date(parsed),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
	}
	require.NoError(t, db.Create(match).Error)
	return match
}
