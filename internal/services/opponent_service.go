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
	// ErrOpponentNotFound indicates the opponent does not exist for the owner.
	ErrOpponentNotFound = apperrors.New("OPPONENT_NOT_FOUND", "Opponent not found", http.StatusNotFound)
	// ErrOpponentInUse signals matches still reference the opponent.
	ErrOpponentInUse = apperrors.New("OPPONENT_IN_USE", "Opponent has recorded matches and cannot be removed", http.StatusConflict)
)

// OpponentService manages the owner's rival teams.
type OpponentService struct {
	db *gorm.DB
}

// NewOpponentService constructs an OpponentService.
func NewOpponentService(db *gorm.DB) (*OpponentService, error) {
	if db == nil {
		return nil, errors.New("opponent service: db is required")
	}
	return &OpponentService{db: db}, nil
}

// List returns the owner's opponents ordered by name.
func (s *OpponentService) List(ctx context.Context, ownerID string) ([]models.Opponent, error) {
	var opponents []models.Opponent
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name").
		Find(&opponents).Error; err != nil {
		return nil, fmt.Errorf("opponent service: list: %w", err)
	}
	return opponents, nil
}

// Create registers a new opponent team.
func (s *OpponentService) Create(ctx context.Context, ownerID, name string) (*models.Opponent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("opponent name is required")
	}

	opponent := &models.Opponent{OwnerID: ownerID, Name: name}
	if err := s.db.WithContext(ctx).Create(opponent).Error; err != nil {
		return nil, fmt.Errorf("opponent service: create: %w", err)
	}
	return opponent, nil
}

// Update renames an opponent scoped to the owner.
func (s *OpponentService) Update(ctx context.Context, ownerID, opponentID, name string) (*models.Opponent, error) {
	opponent, err := s.get(ctx, ownerID, opponentID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("opponent name is required")
	}

	if err := s.db.WithContext(ctx).Model(opponent).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("opponent service: update: %w", err)
	}
	return opponent, nil
}

// Delete removes an opponent unless matches still reference it.
func (s *OpponentService) Delete(ctx context.Context, ownerID, opponentID string) error {
	opponent, err := s.get(ctx, ownerID, opponentID)
	if err != nil {
		return err
	}

	var matches int64
	if err := s.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("opponent_id = ?", opponentID).
		Count(&matches).Error; err != nil {
		return fmt.Errorf("opponent service: count matches: %w", err)
	}
	if matches > 0 {
		return ErrOpponentInUse
	}

	if err := s.db.WithContext(ctx).Delete(opponent).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrOpponentInUse
		}
		return fmt.Errorf("opponent service: delete: %w", err)
	}
	return nil
}

func (s *OpponentService) get(ctx context.Context, ownerID, opponentID string) (*models.Opponent, error) {
	var opponent models.Opponent
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", opponentID, ownerID).
		First(&opponent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOpponentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opponent service: load: %w", err)
	}
	return &opponent, nil
}
