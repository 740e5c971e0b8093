package models

// MatchPlayer is one roster participation entry for a match. The whole set
// for a match is replaced on every lineup save, never patched row by row.
type MatchPlayer struct {
	BaseModel

	MatchID  string `gorm:"type:uuid;index;not null" json:"match_id"`
	PlayerID string `gorm:"type:uuid;index;not null" json:"player_id"`
	Starter  bool   `gorm:"not null;default:false" json:"starter"`
	OwnerID  string `gorm:"type:uuid;index;not null" json:"owner_id"`

	Match  *Match  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Player *Player `gorm:"constraint:OnDelete:RESTRICT" json:"player,omitempty"`
}
