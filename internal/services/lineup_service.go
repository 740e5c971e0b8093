package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
	"github.com/dgarcez/rachao/pkg/metrics"
)

// ErrLineupForbidden rejects lineup writes by viewers without access to the
// match's account.
var ErrLineupForbidden = apperrors.New("LINEUP_FORBIDDEN", "No permission to edit this match", http.StatusForbidden)

// LineupEntry is one roster row of a lineup save: who played, whether they
// started, and how many cards they collected.
type LineupEntry struct {
	PlayerID    string `json:"player_id"`
	Starter     bool   `json:"starter"`
	YellowCards int    `json:"yellow_cards"`
	RedCards    int    `json:"red_cards"`
}

// GoalEntry is one scored goal with an optional assistant.
type GoalEntry struct {
	ScorerID    string  `json:"scorer_id"`
	AssistantID *string `json:"assistant_id,omitempty"`
}

// Lineup is the read model returned for the lineup edit form.
type Lineup struct {
	Entries []LineupEntry `json:"entries"`
	Goals   []GoalEntry   `json:"goals"`
}

// LineupService replaces a match's roster and event log as a unit.
type LineupService struct {
	db     *gorm.DB
	owners *OwnerService
}

// NewLineupService constructs a LineupService.
func NewLineupService(db *gorm.DB, owners *OwnerService) (*LineupService, error) {
	if db == nil {
		return nil, errors.New("lineup service: db is required")
	}
	if owners == nil {
		return nil, errors.New("lineup service: owner service is required")
	}
	return &LineupService{db: db, owners: owners}, nil
}

// Save replaces the match's lineup and events with the submitted payload in
// one transaction, so concurrent readers never observe the window between
// delete and re-insert and a failed insert rolls the delete back. Cards are
// enumerated one event row per card. Returns the number of event rows written.
func (s *LineupService) Save(ctx context.Context, matchID, ownerID, callerID string, entries []LineupEntry, goals []GoalEntry) (int, error) {
	resolved, err := s.owners.EffectiveOwnerID(ctx, callerID)
	if err != nil {
		return 0, err
	}
	if resolved != ownerID {
		return 0, ErrLineupForbidden
	}

	var match models.Match
	err = s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", matchID, ownerID).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrMatchNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lineup service: load match: %w", err)
	}

	events := make([]models.MatchEvent, 0, len(goals))
	for _, g := range goals {
		events = append(events, models.MatchEvent{
			MatchID:     matchID,
			PlayerID:    g.ScorerID,
			EventType:   models.EventGoal,
			AssistantID: normalizeAssistant(g.AssistantID),
			OwnerID:     ownerID,
		})
	}
	for _, entry := range entries {
		for i := 0; i < entry.YellowCards; i++ {
			events = append(events, models.MatchEvent{
				MatchID:   matchID,
				PlayerID:  entry.PlayerID,
				EventType: models.EventYellowCard,
				OwnerID:   ownerID,
			})
		}
		for i := 0; i < entry.RedCards; i++ {
			events = append(events, models.MatchEvent{
				MatchID:   matchID,
				PlayerID:  entry.PlayerID,
				EventType: models.EventRedCard,
				OwnerID:   ownerID,
			})
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", matchID).Delete(&models.MatchPlayer{}).Error; err != nil {
			return fmt.Errorf("clear lineup: %w", err)
		}
		if err := tx.Where("match_id = ?", matchID).Delete(&models.MatchEvent{}).Error; err != nil {
			return fmt.Errorf("clear events: %w", err)
		}

		for _, entry := range entries {
			row := models.MatchPlayer{
				MatchID:  matchID,
				PlayerID: entry.PlayerID,
				Starter:  entry.Starter,
				OwnerID:  ownerID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert lineup row: %w", err)
			}
		}

		for i := range events {
			if err := tx.Create(&events[i]).Error; err != nil {
				return fmt.Errorf("insert event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("lineup service: save: %w", err)
	}

	metrics.LineupEventsWritten.Add(float64(len(events)))
	return len(events), nil
}

// Get returns the current lineup and goal entries for the match, rebuilding
// card counts from the enumerated event rows.
func (s *LineupService) Get(ctx context.Context, matchID, ownerID string) (*Lineup, error) {
	var rows []models.MatchPlayer
	if err := s.db.WithContext(ctx).
		Where("match_id = ? AND owner_id = ?", matchID, ownerID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("lineup service: load lineup: %w", err)
	}

	var events []models.MatchEvent
	if err := s.db.WithContext(ctx).
		Where("match_id = ? AND owner_id = ?", matchID, ownerID).
		Order("created_at").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("lineup service: load events: %w", err)
	}

	lineup := &Lineup{Entries: []LineupEntry{}, Goals: []GoalEntry{}}

	index := make(map[string]int, len(rows))
	for _, row := range rows {
		index[row.PlayerID] = len(lineup.Entries)
		lineup.Entries = append(lineup.Entries, LineupEntry{
			PlayerID: row.PlayerID,
			Starter:  row.Starter,
		})
	}

	for _, ev := range events {
		switch ev.EventType {
		case models.EventGoal:
			lineup.Goals = append(lineup.Goals, GoalEntry{
				ScorerID:    ev.PlayerID,
				AssistantID: ev.AssistantID,
			})
		case models.EventYellowCard:
			if i, ok := index[ev.PlayerID]; ok {
				lineup.Entries[i].YellowCards++
			}
		case models.EventRedCard:
			if i, ok := index[ev.PlayerID]; ok {
				lineup.Entries[i].RedCards++
			}
		}
	}

	return lineup, nil
}

func normalizeAssistant(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
