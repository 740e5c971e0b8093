package database

import (
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamAdmin{},
		&models.PendingInvite{},
		&models.TeamShare{},
		&models.Player{},
		&models.Opponent{},
		&models.Match{},
		&models.MatchPlayer{},
		&models.MatchEvent{},
	)
}
