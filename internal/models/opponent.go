package models

// Opponent is a rival team the owner's roster has played against.
type Opponent struct {
	BaseModel

	OwnerID string `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name    string `gorm:"not null" json:"name"`
}
