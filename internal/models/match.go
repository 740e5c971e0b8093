package models

import (
	"time"

	"gorm.io/datatypes"
)

// Match records one game against an opponent. MatchDate is a calendar date
// with no time component; it drives semester bucketing.
type Match struct {
	BaseModel

	OwnerID      string         `gorm:"type:uuid;index;not null" json:"owner_id"`
	OpponentID   string         `gorm:"type:uuid;index;not null" json:"opponent_id"`
	MatchDate    datatypes.Date `gorm:"index;not null" json:"-"`
	GoalsFor     int            `gorm:"not null;default:0" json:"goals_for"`
	GoalsAgainst int            `gorm:"not null;default:0" json:"goals_against"`

	Opponent *Opponent `gorm:"constraint:OnDelete:RESTRICT" json:"opponent,omitempty"`
}

// Date returns the match date as a time.Time at midnight UTC.
func (m *Match) Date() time.Time {
	return time.Time(m.MatchDate)
}
