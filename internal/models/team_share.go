package models

// TeamShare maps an anonymous public read token to an owner account.
// One row per owner, minted lazily and never rotated.
type TeamShare struct {
	BaseModel

	OwnerID string `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	Token   string `gorm:"uniqueIndex;not null" json:"token"`
}
