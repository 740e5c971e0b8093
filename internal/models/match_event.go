package models

// Event types recorded for a match.
const (
	EventGoal       = "goal"
	EventAssist     = "assist" // legacy standalone assist rows, still counted
	EventYellowCard = "yellow_card"
	EventRedCard    = "red_card"
)

// MatchEvent is a discrete occurrence attributed to a player within a match.
// A goal may carry AssistantID, the modern representation of an assist; assist
// counting sums those with legacy EventAssist rows. Cards are enumerated one
// row per card, never counted in a single row.
type MatchEvent struct {
	BaseModel

	MatchID     string  `gorm:"type:uuid;index;not null" json:"match_id"`
	PlayerID    string  `gorm:"type:uuid;index;not null" json:"player_id"`
	EventType   string  `gorm:"not null;index" json:"event_type"`
	AssistantID *string `gorm:"type:uuid" json:"assistant_id,omitempty"`
	OwnerID     string  `gorm:"type:uuid;index;not null" json:"owner_id"`

	Match  *Match  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Player *Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:RESTRICT" json:"-"`
}
