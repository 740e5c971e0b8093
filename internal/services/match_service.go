package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/internal/semester"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
)

// ErrMatchNotFound indicates the match does not exist for the owner.
var ErrMatchNotFound = apperrors.New("MATCH_NOT_FOUND", "Match not found", http.StatusNotFound)

// MatchInput captures create/update fields for a match.
type MatchInput struct {
	OpponentID   string
	MatchDate    time.Time
	GoalsFor     int
	GoalsAgainst int
}

// MatchService manages matches and their semester-scoped listings.
type MatchService struct {
	db *gorm.DB
}

// NewMatchService constructs a MatchService.
func NewMatchService(db *gorm.DB) (*MatchService, error) {
	if db == nil {
		return nil, errors.New("match service: db is required")
	}
	return &MatchService{db: db}, nil
}

// List returns the owner's matches most recent first, with opponents
// preloaded for display.
func (s *MatchService) List(ctx context.Context, ownerID string) ([]models.Match, error) {
	var matches []models.Match
	if err := s.db.WithContext(ctx).
		Preload("Opponent").
		Where("owner_id = ?", ownerID).
		Order("match_date DESC").
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("match service: list: %w", err)
	}
	return matches, nil
}

// ListSemester filters the owner's matches to one reporting period.
// Filtering happens in memory after the scoped fetch so that listing and
// aggregation always see the same row shapes.
func (s *MatchService) ListSemester(ctx context.Context, ownerID string, sem semester.Semester) ([]models.Match, error) {
	matches, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	filtered := matches[:0]
	for _, m := range matches {
		if sem.Contains(m.Date()) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// Dates returns the owner's match dates, used for semester resolution.
func (s *MatchService) Dates(ctx context.Context, ownerID string) ([]time.Time, error) {
	matches, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(matches))
	for _, m := range matches {
		dates = append(dates, m.Date())
	}
	return dates, nil
}

// Events returns every match event for the owner's account.
func (s *MatchService) Events(ctx context.Context, ownerID string) ([]models.MatchEvent, error) {
	var events []models.MatchEvent
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("match service: list events: %w", err)
	}
	return events, nil
}

// Lineups returns every lineup row for the owner's account.
func (s *MatchService) Lineups(ctx context.Context, ownerID string) ([]models.MatchPlayer, error) {
	var rows []models.MatchPlayer
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("match service: list lineups: %w", err)
	}
	return rows, nil
}

// Create records a new match.
func (s *MatchService) Create(ctx context.Context, ownerID string, input MatchInput) (*models.Match, error) {
	if err := s.validate(ctx, ownerID, input); err != nil {
		return nil, err
	}

	match := &models.Match{
		OwnerID:      ownerID,
		OpponentID:   input.OpponentID,
		MatchDate:    datatypes.Date(input.MatchDate),
		GoalsFor:     input.GoalsFor,
		GoalsAgainst: input.GoalsAgainst,
	}
	if err := s.db.WithContext(ctx).Create(match).Error; err != nil {
		return nil, fmt.Errorf("match service: create: %w", err)
	}
	return match, nil
}

// Update modifies a match scoped to the owner.
func (s *MatchService) Update(ctx context.Context, ownerID, matchID string, input MatchInput) (*models.Match, error) {
	match, err := s.Get(ctx, ownerID, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, ownerID, input); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"opponent_id":   input.OpponentID,
		"match_date":    datatypes.Date(input.MatchDate),
		"goals_for":     input.GoalsFor,
		"goals_against": input.GoalsAgainst,
	}
	if err := s.db.WithContext(ctx).Model(match).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("match service: update: %w", err)
	}
	return match, nil
}

// Delete removes a match along with its lineup and events.
func (s *MatchService) Delete(ctx context.Context, ownerID, matchID string) error {
	match, err := s.Get(ctx, ownerID, matchID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", match.ID).Delete(&models.MatchEvent{}).Error; err != nil {
			return fmt.Errorf("match service: delete events: %w", err)
		}
		if err := tx.Where("match_id = ?", match.ID).Delete(&models.MatchPlayer{}).Error; err != nil {
			return fmt.Errorf("match service: delete lineup: %w", err)
		}
		if err := tx.Delete(match).Error; err != nil {
			return fmt.Errorf("match service: delete match: %w", err)
		}
		return nil
	})
}

// Get loads a match scoped to the owner.
func (s *MatchService) Get(ctx context.Context, ownerID, matchID string) (*models.Match, error) {
	var match models.Match
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", matchID, ownerID).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("match service: load: %w", err)
	}
	return &match, nil
}

func (s *MatchService) validate(ctx context.Context, ownerID string, input MatchInput) error {
	if input.MatchDate.IsZero() {
		return apperrors.NewBadRequest("match date is required")
	}
	if input.GoalsFor < 0 || input.GoalsAgainst < 0 {
		return apperrors.NewBadRequest("goal counts cannot be negative")
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Opponent{}).
		Where("id = ? AND owner_id = ?", input.OpponentID, ownerID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("match service: check opponent: %w", err)
	}
	if count == 0 {
		return ErrOpponentNotFound
	}
	return nil
}
