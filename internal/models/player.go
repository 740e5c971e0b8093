package models

// Player is a roster member of the owner's team. Lineup and event rows
// restrict deletion, so removing a player with recorded history surfaces a
// conflict instead of silently orphaning data.
type Player struct {
	BaseModel

	OwnerID  string `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name     string `gorm:"not null" json:"name"`
	Position string `json:"position"`
	WhatsApp string `json:"whatsapp,omitempty"`
}
