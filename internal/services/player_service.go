package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
)

var (
	// ErrPlayerNotFound indicates the player does not exist in the owner's roster.
	ErrPlayerNotFound = apperrors.New("PLAYER_NOT_FOUND", "Player not found", http.StatusNotFound)
	// ErrPlayerInUse signals the player still has lineup or event history.
	ErrPlayerInUse = apperrors.New("PLAYER_IN_USE", "Player has recorded matches or events and cannot be removed", http.StatusConflict)
)

// PlayerInput captures create/update fields for a roster member.
type PlayerInput struct {
	Name     string
	Position string
	WhatsApp string
}

// PlayerService manages the owner's roster.
type PlayerService struct {
	db *gorm.DB
}

// NewPlayerService constructs a PlayerService.
func NewPlayerService(db *gorm.DB) (*PlayerService, error) {
	if db == nil {
		return nil, errors.New("player service: db is required")
	}
	return &PlayerService{db: db}, nil
}

// List returns the owner's players ordered by name.
func (s *PlayerService) List(ctx context.Context, ownerID string) ([]models.Player, error) {
	var players []models.Player
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name").
		Find(&players).Error; err != nil {
		return nil, fmt.Errorf("player service: list: %w", err)
	}
	return players, nil
}

// Create adds a player to the owner's roster.
func (s *PlayerService) Create(ctx context.Context, ownerID string, input PlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("player name is required")
	}

	player := &models.Player{
		OwnerID:  ownerID,
		Name:     name,
		Position: strings.TrimSpace(input.Position),
		WhatsApp: strings.TrimSpace(input.WhatsApp),
	}
	if err := s.db.WithContext(ctx).Create(player).Error; err != nil {
		return nil, fmt.Errorf("player service: create: %w", err)
	}
	return player, nil
}

// Update modifies a player scoped to the owner.
func (s *PlayerService) Update(ctx context.Context, ownerID, playerID string, input PlayerInput) (*models.Player, error) {
	player, err := s.get(ctx, ownerID, playerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"position": strings.TrimSpace(input.Position),
		"whats_app": strings.TrimSpace(input.WhatsApp),
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}

	if err := s.db.WithContext(ctx).Model(player).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("player service: update: %w", err)
	}
	return player, nil
}

// Delete removes a player. History rows restrict the delete, which is
// surfaced as a user-facing conflict rather than swallowed.
func (s *PlayerService) Delete(ctx context.Context, ownerID, playerID string) error {
	player, err := s.get(ctx, ownerID, playerID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(player).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlayerInUse
		}
		return fmt.Errorf("player service: delete: %w", err)
	}
	return nil
}

func (s *PlayerService) get(ctx context.Context, ownerID, playerID string) (*models.Player, error) {
	var player models.Player
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", playerID, ownerID).
		First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("player service: load: %w", err)
	}
	return &player, nil
}
