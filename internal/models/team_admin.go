package models

// TeamAdmin grants a second account full delegated access to an owner's data.
// The composite unique index makes duplicate grants a storage-level conflict,
// which invite acceptance treats as success.
type TeamAdmin struct {
	BaseModel

	OwnerID string `gorm:"type:uuid;not null;uniqueIndex:idx_team_admins_owner_admin" json:"owner_id"`
	AdminID string `gorm:"type:uuid;not null;uniqueIndex:idx_team_admins_owner_admin;index" json:"admin_id"`
}
