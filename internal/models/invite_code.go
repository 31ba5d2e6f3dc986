package models

import "time"

// UnlimitedUses marks an invite code that never runs out.
const UnlimitedUses = -1

// InviteCode gates registration. uses_left counts remaining redemptions,
// -1 meaning unlimited and 0 exhausted.
type InviteCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"unique;not null" json:"code"`
	UsesLeft  int        `gorm:"not null;default:1" json:"uses_left"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Unlimited reports whether the code has no redemption cap.
func (c *InviteCode) Unlimited() bool {
	return c.UsesLeft == UnlimitedUses
}

// Expired reports whether the code's expiry has passed at the given time.
func (c *InviteCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Redeemable reports whether the code can admit a registration at the
// given time: uses remain (or unlimited) and the expiry has not passed.
func (c *InviteCode) Redeemable(now time.Time) bool {
	if c.Expired(now) {
		return false
	}
	return c.UsesLeft > 0 || c.Unlimited()
}
