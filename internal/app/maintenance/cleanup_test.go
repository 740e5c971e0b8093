package maintenance

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/database"
	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/internal/services"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAll(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newInvitesFixture(t *testing.T, db *gorm.DB) *services.InviteService {
	t.Helper()

	owners, err := services.NewOwnerService(db)
	require.NoError(t, err)
	teams, err := services.NewTeamService(db)
	require.NoError(t, err)
	users, err := services.NewUserService(db, teams)
	require.NoError(t, err)

	invites, err := services.NewInviteService(db, owners, users, nil)
	require.NoError(t, err)
	return invites
}

func TestCleanerRunOncePurgesExpiredInvites(t *testing.T) {
	db := openTestDB(t)
	invites := newInvitesFixture(t, db)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&models.PendingInvite{
		OwnerID:   "owner-1",
		Email:     "expired@example.com",
		Token:     "token-expired",
		ExpiresAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.PendingInvite{
		OwnerID:   "owner-1",
		Email:     "active@example.com",
		Token:     "token-active",
		ExpiresAt: now.Add(time.Hour),
	}).Error)

	cleaner := NewCleaner(invites)
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var remaining []models.PendingInvite
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, "active@example.com", remaining[0].Email)
}

func TestCleanerStartRegistersSchedule(t *testing.T) {
	db := openTestDB(t)
	invites := newInvitesFixture(t, db)

	c := cron.New(cron.WithLogger(cron.DiscardLogger))
	cleaner := NewCleaner(invites, WithCron(c), WithInviteSchedule("@every 1h"))

	require.NoError(t, cleaner.Start())
	require.Len(t, c.Entries(), 1)

	<-cleaner.Stop().Done()
}

func TestCleanerWithoutInvitesIsInert(t *testing.T) {
	cleaner := NewCleaner(nil)
	require.NoError(t, cleaner.Start())
	require.NoError(t, cleaner.RunOnce(context.Background()))
}
