package models

import "time"

// PendingInvite is a time-limited token inviting an email address to become
// an admin of the owner's team. At most one pending invite per (owner, email);
// rows past ExpiresAt are treated as nonexistent by every lookup.
type PendingInvite struct {
	BaseModel

	OwnerID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_pending_invites_owner_email" json:"owner_id"`
	Email     string    `gorm:"not null;uniqueIndex:idx_pending_invites_owner_email" json:"email"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	TeamName  string    `json:"team_name"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

// Expired reports whether the invite is past its validity window.
func (i *PendingInvite) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
