package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
)

// OwnerService resolves which account's data a viewer is entitled to see.
type OwnerService struct {
	db *gorm.DB
}

// NewOwnerService constructs an OwnerService.
func NewOwnerService(db *gorm.DB) (*OwnerService, error) {
	if db == nil {
		return nil, errors.New("owner service: db is required")
	}
	return &OwnerService{db: db}, nil
}

// EffectiveOwnerID determines whose dashboard the viewer should see:
// viewers with at least one player of their own are owners; otherwise an
// admin grant redirects them to the granting owner; otherwise they fall back
// to themselves as a fresh, empty account. The decision never fails, only
// storage errors propagate.
func (s *OwnerService) EffectiveOwnerID(ctx context.Context, viewerID string) (string, error) {
	var playerCount int64
	if err := s.db.WithContext(ctx).
		Model(&models.Player{}).
		Where("owner_id = ?", viewerID).
		Limit(1).
		Count(&playerCount).Error; err != nil {
		return "", fmt.Errorf("owner service: count players: %w", err)
	}
	if playerCount > 0 {
		return viewerID, nil
	}

	var grant models.TeamAdmin
	err := s.db.WithContext(ctx).
		Where("admin_id = ?", viewerID).
		First(&grant).Error
	if err == nil {
		return grant.OwnerID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("owner service: find grant: %w", err)
	}

	return viewerID, nil
}

// IsOwnerOrAdmin reports whether the viewer is the owner itself or holds an
// admin grant for the owner's account.
func (s *OwnerService) IsOwnerOrAdmin(ctx context.Context, viewerID, ownerID string) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.TeamAdmin{}).
		Where("owner_id = ? AND admin_id = ?", ownerID, viewerID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("owner service: check grant: %w", err)
	}
	return count > 0, nil
}
