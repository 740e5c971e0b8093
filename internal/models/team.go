package models

// Team holds the display identity of an owner's roster. Exactly one team per
// owner; the slug doubles as a human-readable public identifier.
type Team struct {
	BaseModel

	OwnerID string `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	Name    string `gorm:"not null" json:"name"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
}
